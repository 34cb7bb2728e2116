package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"settlers/estimator"
	"settlers/experiments/metrics"
	"settlers/game"
	"settlers/searcher"
	"settlers/tracker"
)

// opening plays two snake-order setup rounds on the beginner board and
// hands player 0 enough for a settlement and a road.
func opening(seats int) *game.Game {
	g := game.NewGame(game.NewBeginnerBoard(), seats)
	order := []int{}
	for i := 0; i < seats; i++ {
		order = append(order, i)
	}
	for i := seats - 1; i >= 0; i-- {
		order = append(order, i)
	}
	for _, p := range order {
		best := game.NodeID(game.None)
		for _, n := range g.Board.Nodes {
			if g.IsPotentialSettlement(n.ID) && (best == game.None || g.SettlementValue(n.ID) > g.SettlementValue(best)) {
				best = n.ID
			}
		}
		if err := g.PutPiece(game.Piece{Type: game.Settlement, Player: p, Coord: int(best)}); err != nil {
			panic(err)
		}
		for _, e := range g.Board.Nodes[best].Edges {
			if g.IsLegalRoad(p, e) {
				if err := g.PutPiece(game.Piece{Type: game.Road, Player: p, Coord: int(e)}); err != nil {
					panic(err)
				}
				break
			}
		}
	}
	g.Phase = game.PlayPhase
	g.Players[0].Resources = game.Resources{game.Clay: 2, game.Wood: 2, game.Wheat: 1, game.Sheep: 1}
	return g
}

func newSet(g *game.Game) *tracker.Set {
	return tracker.NewSet(g, estimator.NewEstimator())
}

// extensionGame gives player 0 a four-road line running out to sea and
// eight points, so one more road takes the longest road and the game.
// Player 1 sits apart and cannot build.
func extensionGame() *game.Game {
	b := game.NewBoard()
	line := make([]game.NodeID, 6)
	for i := range line {
		line[i] = b.AddNode()
		if i > 0 {
			b.AddEdge(line[i-1], line[i])
		}
	}
	far := b.AddNode()
	farEnd := b.AddNode()
	farRoad := b.AddEdge(far, farEnd)
	b.AddHex(game.Clay, 6, line[0])
	b.AddHex(game.Wood, 8, line[0])
	b.AddHex(game.Wheat, 5, far)

	g := game.NewGame(b, 2)
	g.Phase = game.PlayPhase
	g.PutTempPiece(game.Piece{Type: game.Settlement, Player: 0, Coord: int(line[0])})
	for i := 1; i < 5; i++ {
		e, _ := b.EdgeBetween(line[i-1], line[i])
		g.PutTempPiece(game.Piece{Type: game.Road, Player: 0, Coord: int(e)})
	}
	g.PutTempPiece(game.Piece{Type: game.Settlement, Player: 1, Coord: int(far)})
	g.PutTempPiece(game.Piece{Type: game.Road, Player: 1, Coord: int(farRoad)})
	g.UpdateLongestRoad()
	g.Deck = [game.NumDevCardTypes]int{}

	pl := g.Players[0]
	pl.Pieces[game.City] = 0
	pl.DevCards.Old[game.VictoryPointCard] = 7
	pl.Resources = game.Resources{game.Clay: 1, game.Wood: 1}
	return g
}

func plansOf(plans []ScoredPlan, t PlanType) []ScoredPlan {
	var out []ScoredPlan
	for _, p := range plans {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

func TestGenerate(t *testing.T) {
	t.Run("largest army waits for the threshold", func(t *testing.T) {
		g := opening(2)
		g.Players[0].DevCards.Old[game.VictoryPointCard] = 2
		require.Equal(t, 4, g.VictoryPoints(0))
		set := newSet(g)

		var memory Memory
		plans := NewGenerator(DefaultConfig(), set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs)
		require.Empty(t, plansOf(plans, LargestArmyPlan))
		require.NotEmpty(t, plansOf(plans, CardPlan))

		g = opening(2)
		g.Players[0].DevCards.Old[game.VictoryPointCard] = 3
		set = newSet(g)
		plans = NewGenerator(DefaultConfig(), set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs)
		army := plansOf(plans, LargestArmyPlan)
		require.Len(t, army, 1)
		require.Equal(t, game.LargestArmyMinimum, army[0].Plan.Len())
		require.Equal(t, game.LargestArmyMinimum, army[0].Plan.Count(game.Card))
		require.GreaterOrEqual(t, army[0].ETA, set.CardPlayDelay())
	})

	t.Run("estimation settings reach the tracker set", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Cutoff = 1
		cfg.ETASentinel = 77
		cfg.CardPlayDelay = 0
		g := opening(2)
		g.Players[0].Resources = game.Resources{}
		g.Players[0].DevCards.Old[game.VictoryPointCard] = 3
		set := tracker.NewSet(g, estimator.NewEstimator(), cfg.TrackerOptions()...)
		require.Equal(t, 1, set.Cutoff())
		require.Equal(t, 77, set.Sentinel())
		require.Zero(t, set.CardPlayDelay())

		var memory Memory
		plans := NewGenerator(cfg, set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs)
		card := plansOf(plans, CardPlan)
		require.Len(t, card, 1)
		require.Equal(t, 77, card[0].ETA, "An empty hand cannot buy a card in one roll")
		army := plansOf(plans, LargestArmyPlan)
		require.Len(t, army, 1)
		require.Equal(t, 77, army[0].ETA, "No play delay on top of the sentinel")
		settlements := plansOf(plans, SettlementPlan)
		require.NotEmpty(t, settlements)
		for _, p := range settlements {
			require.Equal(t, 77, p.ETA)
		}
	})

	t.Run("a blocked longest road leaves an unreachable record", func(t *testing.T) {
		g := extensionGame()
		e, ok := g.Board.EdgeBetween(4, 5)
		require.True(t, ok)
		g.PutTempPiece(game.Piece{Type: game.Road, Player: 1, Coord: int(e)})
		set := newSet(g)

		var memory Memory
		plans := NewGenerator(DefaultConfig(), set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs)
		lr := plansOf(plans, LongestRoadPlan)
		require.Len(t, lr, 1)
		require.True(t, lr[0].Plan.IsEmpty())
		require.Equal(t, searcher.Unreachable, lr[0].ETA)
	})

	t.Run("settlement plans build roads first", func(t *testing.T) {
		set := newSet(opening(2))
		var memory Memory
		plans := plansOf(NewGenerator(DefaultConfig(), set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs), SettlementPlan)
		require.NotEmpty(t, plans)

		withRoads := 0
		for _, p := range plans {
			order := p.Plan.BuildOrder()
			last := order[len(order)-1]
			require.Equal(t, game.Settlement, last.Type())
			roads := order[:len(order)-1]
			require.LessOrEqual(t, len(roads), set.Game.Players[0].PiecesLeft(game.Road))
			require.Len(t, roads, len(last.Base().NecessaryRoads))
			for i, r := range roads {
				require.Equal(t, game.Road, r.Type())
				require.Equal(t, int(last.Base().NecessaryRoads[i]), r.Base().Coord)
			}
			if len(roads) > 0 {
				withRoads++
			}
		}
		require.Positive(t, withRoads)
	})

	t.Run("settlements needing more roads than left are skipped", func(t *testing.T) {
		g := opening(2)
		g.Players[0].Pieces[game.Road] = 1
		set := newSet(g)
		var memory Memory
		plans := NewGenerator(DefaultConfig(), set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs)
		for _, p := range plansOf(plans, SettlementPlan) {
			require.LessOrEqual(t, p.Plan.Count(game.Road), 1)
		}
	})

	t.Run("favour discounts the eta", func(t *testing.T) {
		set := newSet(opening(2))
		cfg := DefaultConfig()
		cfg.Favour.City = 0.5
		var memory Memory
		etas := set.Tracker(0).BuildingETAs
		cities := plansOf(NewGenerator(cfg, set, 0, &memory, nil).Generate(etas), CityPlan)
		require.Len(t, cities, 2)
		require.Equal(t, int(float64(etas[game.City])-0.5*float64(etas[game.City])), cities[0].ETA)
		require.Equal(t, 0, favour(7, 1))
	})

	t.Run("delta ranking tries placements", func(t *testing.T) {
		set := newSet(opening(2))
		cfg := DefaultConfig()
		cfg.RankByDeltaWinETA = true
		collector := metrics.NewCollector()
		collector.Start(0, "nbest")
		var memory Memory
		plans := NewGenerator(cfg, set, 0, &memory, collector).Generate(set.Tracker(0).BuildingETAs)
		m := collector.Complete("", 0)
		require.Equal(t, len(plans), m.Candidates)
		require.Greater(t, m.Tries, len(plans)-1)
		require.Zero(t, set.Pending())
	})

	t.Run("regenerates from scratch", func(t *testing.T) {
		set := newSet(opening(2))
		var memory Memory
		memory.Remember(ScoredPlan{Type: CardPlan})
		gen := NewGenerator(DefaultConfig(), set, 0, &memory, nil)
		first := gen.Generate(set.Tracker(0).BuildingETAs)
		second := gen.Generate(set.Tracker(0).BuildingETAs)
		require.Equal(t, len(first), len(second))
		require.Equal(t, len(first), memory.Len())
	})
}

func TestDecisionMaker(t *testing.T) {
	t.Run("empty plan when nothing can be built", func(t *testing.T) {
		for _, s := range []Strategy{Fast, NBest, Smart} {
			g := opening(2)
			g.Players[0].Resources = game.Resources{}
			g.Players[0].Pieces = [game.NumBoardPieces]int{}
			g.Deck = [game.NumDevCardTypes]int{}
			set := newSet(g)

			var memory Memory
			require.Empty(t, NewGenerator(DefaultConfig(), set, 0, &memory, nil).Generate(set.Tracker(0).BuildingETAs))

			dm := NewDecisionMaker(0, WithStrategy(s))
			plan := dm.Plan(set)
			require.True(t, plan.IsEmpty(), s.String())
			require.True(t, dm.Committed().IsEmpty())
			require.Equal(t, Idle, dm.State())
		}
	})

	t.Run("fast commits a plan", func(t *testing.T) {
		set := newSet(opening(2))
		collector := metrics.NewCollector()
		dm := NewDecisionMaker(0, WithMetrics(collector))
		plan := dm.Plan(set)
		require.False(t, plan.IsEmpty())
		require.Equal(t, plan.String(), dm.Committed().String())
		require.Equal(t, len(dm.Memory()), dm.LastMetric().Candidates)
		require.Equal(t, plan.Len(), dm.LastMetric().PlanSize)
		require.NotEmpty(t, dm.LastMetric().PlanType)
	})

	t.Run("nbest and plan in memory", func(t *testing.T) {
		set := newSet(opening(2))
		dm := NewDecisionMaker(0, WithStrategy(NBest), WithNBest(100))
		plan := dm.Plan(set)

		roads := set.Game.Players[0].PiecesLeft(game.Road)
		last, ok := SelectNBest(dm.Memory(), 100, roads, dm.Config())
		require.True(t, ok)
		require.Equal(t, last.Plan.String(), plan.String())

		remembered := len(dm.Memory())
		best, _ := SelectNBest(dm.Memory(), 0, roads, dm.Config())
		require.Equal(t, best.Plan.String(), dm.PlanInMemory(set).String())
		require.Len(t, dm.Memory(), remembered)
	})

	t.Run("pending placements abort the cycle", func(t *testing.T) {
		set := newSet(opening(2))
		city := set.Tracker(0).SortedCities()[0]
		undo, err := set.Apply(city)
		require.NoError(t, err)

		dm := NewDecisionMaker(0)
		require.True(t, dm.Plan(set).IsEmpty())
		require.NoError(t, set.Undo(undo))
		require.False(t, dm.Plan(set).IsEmpty())
	})

	t.Run("smart scores pieces", func(t *testing.T) {
		set := newSet(opening(3))
		collector := metrics.NewCollector()
		dm := NewDecisionMaker(0, WithStrategy(Smart), WithMetrics(collector))
		plan := dm.Plan(set)
		require.False(t, plan.IsEmpty())
		require.Positive(t, dm.LastMetric().Tries)
		require.Zero(t, set.Pending())
		require.Less(t, set.Tracker(0).WinGameETA, tracker.MaxETA)
	})

	t.Run("every road buildable now is scored", func(t *testing.T) {
		set := newSet(opening(3))
		collector := metrics.NewCollector()
		dm := NewDecisionMaker(0, WithStrategy(Smart), WithMetrics(collector))
		dm.Plan(set)

		now := 0
		for _, pr := range set.Tracker(0).SortedRoads() {
			if len(pr.NecessaryRoads) == 0 {
				now++
			}
		}
		require.Positive(t, now)
		require.Equal(t, now, len(dm.smart.threatenedRoads)+len(dm.smart.goodRoads))
		require.Positive(t, dm.smart.candidates)
		require.Equal(t, dm.smart.candidates, dm.LastMetric().Candidates, "Logged count should match the scored candidates")
	})

	t.Run("a plain extension road can win the pick", func(t *testing.T) {
		g := extensionGame()
		require.Equal(t, 8, g.VictoryPoints(0))
		set := newSet(g)
		roads := set.Tracker(0).SortedRoads()
		require.Len(t, roads, 1)
		require.Empty(t, roads[0].Unlocks, "The road leads out to sea")
		require.False(t, roads[0].IsThreatened())

		dm := NewDecisionMaker(0, WithStrategy(Smart))
		plan := dm.Plan(set)
		top, ok := plan.Peek()
		require.True(t, ok, "The winning road should be chosen")
		require.Equal(t, game.Road, top.Type())
		require.Equal(t, roads[0].Coord, top.Base().Coord)
		require.Equal(t, "ROAD", dm.chosen)
		require.Positive(t, roads[0].Score)
	})

	t.Run("road building reserves two roads", func(t *testing.T) {
		g := opening(2)
		g.Players[0].DevCards.Old[game.RoadBuilding] = 1
		set := newSet(g)
		dm := NewDecisionMaker(0, WithStrategy(Smart))
		plan := dm.Plan(set)

		order := plan.BuildOrder()
		require.GreaterOrEqual(t, len(order), 2)
		require.Equal(t, game.Road, order[0].Type())
		require.Equal(t, game.Road, order[1].Type())
		require.NotEqual(t, order[0].Base().Coord, order[1].Base().Coord)
		require.Zero(t, set.Pending(), "The lookahead should be undone")
		require.Equal(t, game.None, set.Game.EdgeOwner[order[0].Base().Coord])

		g = opening(2)
		g.Players[0].DevCards.Old[game.RoadBuilding] = 1
		g.Players[0].PlayedDevCard = true
		set = newSet(g)
		plan = NewDecisionMaker(0, WithStrategy(Smart)).Plan(set)
		require.LessOrEqual(t, plan.Count(game.Road), 1)
	})

	t.Run("announces plan changes once", func(t *testing.T) {
		set := newSet(opening(2))
		cfg := DefaultConfig()
		cfg.AnnouncePlans = true
		cfg.SharePlanChanges = true
		var heard []string
		dm := NewDecisionMaker(0, WithConfig(cfg), WithAnnouncer(func(player int, text string) {
			require.Equal(t, 0, player)
			heard = append(heard, text)
		}))
		dm.Plan(set)
		dm.Plan(set)
		require.Len(t, heard, 1)

		cfg.SharePlanChanges = false
		heard = nil
		dm = NewDecisionMaker(0, WithConfig(cfg), WithAnnouncer(func(player int, text string) {
			heard = append(heard, text)
		}))
		dm.Plan(set)
		dm.Plan(set)
		dm.PlanInMemory(set)
		require.Len(t, heard, 2)
	})
}

func TestWinETABonus(t *testing.T) {
	dm := NewDecisionMaker(0)
	b := baseline{originals: []int{20, 10}, leaders: []int{1}, best: 10}
	scale := dm.cfg.BonusScale / 2

	t.Run("own improvement", func(t *testing.T) {
		require.InDelta(t, scale*5/20, dm.winETABonus(b, []int{15, 10}), 1e-9)
		require.InDelta(t, scale, dm.winETABonus(b, []int{0, 10}), 1e-9)
	})

	t.Run("helping the leader costs more", func(t *testing.T) {
		require.InDelta(t, -scale*dm.cfg.LeaderAdversarialFactor*2/10, dm.winETABonus(b, []int{20, 8}), 1e-9)
		require.Positive(t, dm.winETABonus(b, []int{20, 12}))
	})

	t.Run("non-leaders weigh by their distance", func(t *testing.T) {
		b := baseline{originals: []int{20, 10, 30}, leaders: []int{1}, best: 10}
		scale := dm.cfg.BonusScale / 3
		want := -scale * dm.cfg.AdversarialFactor * (3.0 / 30) * (10.0 / 30)
		require.InDelta(t, want, dm.winETABonus(b, []int{20, 10, 27}), 1e-9)
	})

	t.Run("tied leaders count once each", func(t *testing.T) {
		b := baseline{originals: []int{20, 10, 10, 30}, leaders: []int{1, 2}, best: 10}
		scale := dm.cfg.BonusScale / 4
		leader := -scale * dm.cfg.LeaderAdversarialFactor * 2 / 10
		require.InDelta(t, leader, dm.winETABonus(b, []int{20, 8, 10, 30}), 1e-9)
		require.InDelta(t, 2*leader, dm.winETABonus(b, []int{20, 8, 8, 30}), 1e-9)
		other := -scale * dm.cfg.AdversarialFactor * (3.0 / 30) * (10.0 / 30)
		require.InDelta(t, other, dm.winETABonus(b, []int{20, 10, 10, 27}), 1e-9)
	})

	t.Run("unknown win eta stands at the game length", func(t *testing.T) {
		b := baseline{originals: []int{dm.cfg.MaxGameLength, 10}, leaders: []int{1}, best: 10}
		require.Zero(t, dm.winETABonus(b, []int{tracker.MaxETA, 10}))
	})

	t.Run("eta discount", func(t *testing.T) {
		require.InDelta(t, 10.0, dm.etaBonus(0, 10), 1e-9)
		require.InDelta(t, 10.0/1.8, dm.etaBonus(1, 10), 1e-9)
		require.Less(t, dm.etaBonus(5, 10), dm.etaBonus(4, 10))
	})
}
