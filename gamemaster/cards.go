package gamemaster

import (
	"fmt"

	"settlers/game"
	"settlers/planner"
	"settlers/tracker"
)

// BuyCard pays for and draws a development card. It can't be played this turn.
func (m *Master) BuyCard(player int) (game.DevCardType, error) {
	g := m.Game
	pl := g.Players[player]
	if !pl.Resources.Contains(game.CardCost) {
		return 0, fmt.Errorf("card: %w", game.ErrInsufficientResources)
	}
	kind, err := g.DrawCard(m.rng)
	if err != nil {
		return 0, err
	}
	pl.Resources = pl.Resources.Subtract(game.CardCost)
	pl.DevCards.Add(kind, true)
	return kind, nil
}

func (m *Master) play(player int, kind game.DevCardType) error {
	pl := m.Game.Players[player]
	if pl.PlayedDevCard {
		return ErrAlreadyPlayed
	}
	if !pl.DevCards.Playable(kind) {
		return fmt.Errorf("%s: %w", kind, game.ErrNoCard)
	}
	pl.DevCards.Remove(kind)
	pl.PlayedDevCard = true
	return nil
}

// PlayKnight adds to the player's army. There is no robber to move.
func (m *Master) PlayKnight(player int) error {
	if err := m.play(player, game.Knight); err != nil {
		return err
	}
	m.Game.Players[player].Knights++
	m.Game.UpdateLargestArmy()
	return nil
}

// PlayRoadBuilding builds up to two roads from the top of the plan for free
// and returns how many were built.
func (m *Master) PlayRoadBuilding(player int, plan *planner.BuildPlan) (int, error) {
	top, ok := plan.Peek()
	if !ok || top.Type() != game.Road {
		return 0, fmt.Errorf("plan does not start with a road: %w", ErrStalePlan)
	}
	if err := m.play(player, game.RoadBuilding); err != nil {
		return 0, err
	}
	built := 0
	for built < 2 {
		top, ok := plan.Peek()
		if !ok || top.Type() != game.Road {
			break
		}
		pc, _ := tracker.Placement(top)
		pc.Player = player
		if !m.isLegal(pc) {
			break
		}
		if err := m.Game.PutPiece(pc); err != nil {
			return built, err
		}
		plan.Pop()
		built++
	}
	return built, nil
}

// PlayYearOfPlenty takes the two cards the player misses most for target.
func (m *Master) PlayYearOfPlenty(player int, target game.Resources) error {
	if err := m.play(player, game.YearOfPlenty); err != nil {
		return err
	}
	pl := m.Game.Players[player]
	for i := 0; i < 2; i++ {
		pl.Resources[mostMissing(pl.Resources, target)]++
	}
	return nil
}

// PlayMonopoly collects every card of the resource the player misses most.
func (m *Master) PlayMonopoly(player int, target game.Resources) (game.Resource, int, error) {
	if err := m.play(player, game.Monopoly); err != nil {
		return 0, 0, err
	}
	r := mostMissing(m.Game.Players[player].Resources, target)
	taken := 0
	for i, pl := range m.Game.Players {
		if i == player {
			continue
		}
		taken += pl.Resources[r]
		pl.Resources[r] = 0
	}
	m.Game.Players[player].Resources[r] += taken
	return r, taken, nil
}

func mostMissing(hand, target game.Resources) game.Resource {
	best, gap := game.Resource(0), -1<<31
	for r := game.Resource(0); r < game.NumResources; r++ {
		if d := target[r] - hand[r]; d > gap {
			best, gap = r, d
		}
	}
	return best
}
