package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"settlers/game"
	"settlers/searcher"
	"settlers/tracker"
)

func settlementPlan(eta, speedup, roads int) ScoredPlan {
	order := []tracker.Piece{}
	for i := 0; i < roads; i++ {
		order = append(order, tracker.NewRoad(0, game.EdgeID(i)))
	}
	order = append(order, tracker.NewSettlement(0, 7))
	return ScoredPlan{Type: SettlementPlan, Plan: NewBuildPlan(order...), ETA: eta, Speedup: speedup}
}

func cityPlan(eta, speedup int) ScoredPlan {
	return ScoredPlan{Type: CityPlan, Plan: NewBuildPlan(tracker.NewCity(0, 3)), ETA: eta, Speedup: speedup}
}

func cardPlan(eta int) ScoredPlan {
	return ScoredPlan{Type: CardPlan, Plan: NewBuildPlan(tracker.NewCard(0)), ETA: eta}
}

func TestSelectFast(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("quicker settlement beats city", func(t *testing.T) {
		plans := []ScoredPlan{cityPlan(3, 2), settlementPlan(2, 5, 0)}
		p, ok := SelectFast(plans, 3, 15, cfg)
		require.True(t, ok)
		require.Equal(t, SettlementPlan, p.Type)
		require.Equal(t, 2, p.ETA)
	})

	t.Run("ties go to the higher speedup", func(t *testing.T) {
		plans := []ScoredPlan{cityPlan(3, 4), settlementPlan(3, 4, 0)}
		p, _ := SelectFast(plans, 3, 15, cfg)
		require.Equal(t, CityPlan, p.Type)

		plans = []ScoredPlan{cityPlan(3, 4), settlementPlan(3, 6, 0), settlementPlan(3, 5, 0)}
		p, _ = SelectFast(plans, 3, 15, cfg)
		require.Equal(t, SettlementPlan, p.Type)
		require.Equal(t, 6, p.Speedup)
	})

	t.Run("best city has the largest speedup", func(t *testing.T) {
		plans := []ScoredPlan{cityPlan(3, 2), cityPlan(3, 9), cityPlan(3, 5)}
		p, _ := SelectFast(plans, 3, 15, cfg)
		require.Equal(t, 9, p.Speedup)
	})

	t.Run("races only above the threshold", func(t *testing.T) {
		army := ScoredPlan{Type: LargestArmyPlan, Plan: NewBuildPlan(tracker.NewCard(0)), ETA: 1}
		plans := []ScoredPlan{settlementPlan(2, 5, 0), army}

		p, _ := SelectFast(plans, 4, 15, cfg)
		require.Equal(t, SettlementPlan, p.Type)

		p, _ = SelectFast(plans, 5, 15, cfg)
		require.Equal(t, LargestArmyPlan, p.Type)
	})

	t.Run("card is the fallback below the threshold", func(t *testing.T) {
		plans := []ScoredPlan{cardPlan(4)}
		p, ok := SelectFast(plans, 3, 15, cfg)
		require.True(t, ok)
		require.Equal(t, CardPlan, p.Type)

		_, ok = SelectFast(plans, 5, 15, cfg)
		require.False(t, ok)

		p, _ = SelectFast(append(plans, cityPlan(9, 1)), 3, 15, cfg)
		require.Equal(t, CityPlan, p.Type)
	})

	t.Run("plans needing too many roads are dropped", func(t *testing.T) {
		plans := []ScoredPlan{settlementPlan(1, 5, 3), cityPlan(4, 1)}
		p, _ := SelectFast(plans, 3, 2, cfg)
		require.Equal(t, CityPlan, p.Type)
	})

	t.Run("nothing to pick", func(t *testing.T) {
		_, ok := SelectFast(nil, 3, 15, cfg)
		require.False(t, ok)
	})
}

func TestSelectNBest(t *testing.T) {
	cfg := DefaultConfig()
	plans := []ScoredPlan{cardPlan(20), cardPlan(10), cardPlan(25), cardPlan(15), cardPlan(12)}

	t.Run("picks the n-th lowest composite", func(t *testing.T) {
		p, ok := SelectNBest(plans, 2, 15, cfg)
		require.True(t, ok)
		require.Equal(t, 15, p.ETA)

		p, _ = SelectNBest(plans, 0, 15, cfg)
		require.Equal(t, 10, p.ETA)
	})

	t.Run("clamps to the last", func(t *testing.T) {
		p, ok := SelectNBest(plans, 10, 15, cfg)
		require.True(t, ok)
		require.Equal(t, 25, p.ETA)
	})

	t.Run("leaves the input order alone", func(t *testing.T) {
		SelectNBest(plans, 1, 15, cfg)
		require.Equal(t, 20, plans[0].ETA)
	})

	t.Run("composite uses the enabled discounts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RankBySpeedup = true
		cfg.SpeedupDiscount = 2
		cfg.RankByDeltaWinETA = true
		cfg.DeltaWinETADiscount = 0.5
		p := ScoredPlan{ETA: 10, Speedup: 3, DeltaWinGameETA: 4}
		require.InDelta(t, 2.0, p.Composite(cfg), 1e-9)
		require.InDelta(t, 10.0, p.Composite(DefaultConfig()), 1e-9)

		fast := cityPlan(5, 1)
		slowButProductive := cityPlan(8, 5)
		got, _ := SelectNBest([]ScoredPlan{fast, slowButProductive}, 0, 15, cfg)
		require.Equal(t, 8, got.ETA)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := SelectNBest([]ScoredPlan{{Type: LongestRoadPlan, ETA: searcher.Unreachable}}, 0, 15, cfg)
		require.False(t, ok, "the empty longest road record is not a candidate")
	})
}

func TestBuildPlan(t *testing.T) {
	road := tracker.NewRoad(0, 4)
	settlement := tracker.NewSettlement(0, 9)
	b := NewBuildPlan(road, settlement)

	top, ok := b.Peek()
	require.True(t, ok)
	require.Equal(t, tracker.Piece(road), top)
	require.Equal(t, []tracker.Piece{road, settlement}, b.BuildOrder())
	require.Equal(t, 1, b.Count(game.Road))

	c := b.Clone()
	p, _ := c.Pop()
	require.Equal(t, tracker.Piece(road), p)
	require.Equal(t, 2, b.Len(), "clones are independent")

	b.Clear()
	require.True(t, b.IsEmpty())
	_, ok = b.Pop()
	require.False(t, ok)
	require.Equal(t, "[]", b.String())
}

func TestBuildPlanValues(t *testing.T) {
	road := tracker.NewRoad(0, 4)
	require.True(t, NewBuildPlan().IsEmpty())
	require.Equal(t, "[]", NewBuildPlan().String())
	require.Equal(t, 1, NewBuildPlan(road).Len())
	require.Len(t, NewBuildPlan(road, tracker.NewSettlement(0, 9)).Describe(), 2)
	require.Equal(t, []tracker.Piece{road}, NewBuildPlan(road).BuildOrder())
	require.Equal(t, 1, cityPlan(3, 1).Plan.Count(game.City))
	require.InDelta(t, 3.0, cityPlan(3, 0).Composite(DefaultConfig()), 1e-9)

	dm := NewDecisionMaker(0)
	require.True(t, dm.Plan(nil).IsEmpty(), "A plan is usable straight from the call")
	require.Equal(t, "[]", dm.PlanInMemory(nil).String())
}
