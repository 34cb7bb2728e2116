package estimator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"settlers/game"
)

// Six pips of every resource: one card of each every six rolls.
var even = game.Production{6, 6, 6, 6, 6}

func TestRolls(t *testing.T) {
	t.Run("already affordable", func(t *testing.T) {
		est, err := Rolls(game.RoadCost, game.RoadCost, 10, even, 0)

		require.NoError(t, err)
		require.Equal(t, 0, est.Rolls, "A covered target needs no rolls")
	})

	t.Run("production only", func(t *testing.T) {
		est, err := Rolls(game.Resources{}, game.RoadCost, 50, even, 0)

		require.NoError(t, err)
		require.Equal(t, 6, est.Rolls, "One clay and one wood take six rolls")
		require.True(t, est.Resources.Contains(game.RoadCost), "Projected hand should cover the target")
	})

	t.Run("trades surplus at the port ratio", func(t *testing.T) {
		hand := game.Resources{game.Ore: 4}
		target := game.Resources{game.Wood: 1}

		est, err := Rolls(hand, target, 0, game.Production{}, 0)
		require.NoError(t, err)
		require.Equal(t, game.Resources{game.Wood: 1}, est.Resources, "Four ore should buy one wood from the bank")

		_, err = Rolls(game.Resources{game.Ore: 3}, target, 0, game.Production{}, 0)
		require.ErrorIs(t, err, ErrCutoffExceeded, "Three ore are not enough without a port")

		est, err = Rolls(game.Resources{game.Ore: 3}, target, 0, game.Production{}, game.MiscPort)
		require.NoError(t, err)
		require.Equal(t, 0, est.Rolls, "Misc port trades three for one")

		est, err = Rolls(game.Resources{game.Ore: 2}, target, 0, game.Production{}, game.ResourcePort(game.Ore))
		require.NoError(t, err)
		require.Equal(t, 0, est.Rolls, "Ore port trades two for one")
	})

	t.Run("cutoff is a failure, not a large number", func(t *testing.T) {
		est, err := Rolls(game.Resources{}, game.CityCost, 5, even, 0)

		require.ErrorIs(t, err, ErrCutoffExceeded, "City takes longer than five rolls")
		require.Equal(t, Estimate{}, est, "No estimate on cutoff")

		_, err = Rolls(game.Resources{}, game.RoadCost, 1000, game.Production{}, 0)
		require.ErrorIs(t, err, ErrCutoffExceeded, "No production never affords anything")
	})

	t.Run("estimate never exceeds the cutoff", func(t *testing.T) {
		for cutoff := 0; cutoff < 40; cutoff++ {
			est, err := Rolls(game.Resources{}, game.CityCost, cutoff, even, game.MiscPort)
			if err == nil {
				require.LessOrEqual(t, est.Rolls, cutoff, "Estimate should stay within cutoff %d", cutoff)
			}
		}
	})

	t.Run("larger targets never take fewer rolls", func(t *testing.T) {
		prod := game.Production{2, 5, 3, 4, 1}
		ports := game.ResourcePort(game.Ore)
		base := game.Resources{}
		target := game.Resources{}
		previous := 0
		for step := 0; step < 12; step++ {
			target[step%game.NumResources]++
			est, err := Rolls(base, target, 1000, prod, ports)
			require.NoError(t, err)
			require.GreaterOrEqual(t, est.Rolls, previous, "Target %v should not be faster than its subset", target)
			previous = est.Rolls
		}
	})
}

func TestBuildingETAs(t *testing.T) {
	etas := BuildingETAs(game.Resources{}, even, 0, 100, 100)

	require.Equal(t, 6, etas[game.Road], "Road needs two kinds")
	require.Equal(t, 6, etas[game.Settlement], "Settlement needs one of four kinds")
	require.Equal(t, 18, etas[game.City], "City needs three ore")
	require.Equal(t, 6, etas[game.Card], "Card needs one of three kinds")

	etas = BuildingETAs(game.Resources{}, game.Production{}, 0, 100, 100)
	require.Equal(t, [game.NumPieceTypes]int{100, 100, 100, 100}, etas, "Nothing is affordable without production")
}

func TestSpeedup(t *testing.T) {
	require.Zero(t, Speedup(even, game.Production{}, 0, 0, 100), "Nothing added saves nothing")
	require.Positive(t, Speedup(even, game.Production{game.Ore: 5}, 0, 0, 100), "More ore should speed up cities")
}

func TestEstimatorCache(t *testing.T) {
	e := NewEstimator(WithCacheSize(8))

	first, err := e.Rolls(game.Resources{}, game.RoadCost, 50, even, 0)
	require.NoError(t, err)
	second, err := e.Rolls(game.Resources{}, game.RoadCost, 50, even, 0)
	require.NoError(t, err)

	require.Equal(t, first, second, "Cached answer should equal the computed one")
	hits, misses := e.Stats()
	require.Equal(t, 1, hits, "Second lookup should hit")
	require.Equal(t, 1, misses, "First lookup should miss")

	require.Equal(t, 100, e.RollsOrSentinel(game.Resources{}, game.CityCost, 5, even, 0, 100), "Cutoff should become the sentinel")
}
