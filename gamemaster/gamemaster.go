package gamemaster

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"settlers/game"
	"settlers/planner"
	"settlers/tracker"
)

var (
	ErrStalePlan     = errors.New("plan no longer buildable")
	ErrAlreadyPlayed = errors.New("a development card was already played this turn")
)

// Master resolves the actions of a game: dice, trades, building and cards.
type Master struct {
	Game *game.Game
	rng  *rand.Rand
}

func NewMaster(g *game.Game, rng *rand.Rand) *Master {
	if g == nil || rng == nil {
		panic("game master needs a game and a random source")
	}
	return &Master{Game: g, rng: rng}
}

// Roll throws two dice and pays out the production.
func (m *Master) Roll() int {
	roll := m.rng.Intn(6) + m.rng.Intn(6) + 2
	m.Produce(roll)
	return roll
}

// Produce hands every building next to a hex numbered roll its resource.
func (m *Master) Produce(roll int) {
	g := m.Game
	for _, hex := range g.Board.Hexes {
		if hex.Number != roll || hex.Resource < 0 || hex.Resource >= game.NumResources {
			continue
		}
		for _, n := range hex.Nodes {
			owner := g.NodeOwner[n]
			if owner == game.None {
				continue
			}
			amount := 1
			if g.Cities[n] {
				amount = 2
			}
			g.Players[owner].Resources[hex.Resource] += amount
		}
	}
}

// Trade gives the bank cards of one resource at the player's best ratio
// for one card of another.
func (m *Master) Trade(player int, give, get game.Resource) error {
	pl := m.Game.Players[player]
	ratio := m.Game.Ports(player).Ratio(give)
	if pl.Resources[give] < ratio {
		return fmt.Errorf("trade %d %s for %s: %w", ratio, give, get, game.ErrInsufficientResources)
	}
	pl.Resources[give] -= ratio
	pl.Resources[get]++
	return nil
}

// tradeFor trades surplus into the deficits of target, cheapest ratio first.
// It reports whether the hand covers target afterwards.
func (m *Master) tradeFor(player int, target game.Resources) bool {
	pl := m.Game.Players[player]
	ports := m.Game.Ports(player)
	for !pl.Resources.Contains(target) {
		get := game.Resource(game.None)
		for r := game.Resource(0); r < game.NumResources; r++ {
			if pl.Resources[r] < target[r] {
				get = r
				break
			}
		}
		give := game.Resource(game.None)
		for r := game.Resource(0); r < game.NumResources; r++ {
			surplus := pl.Resources[r] - target[r]
			if surplus >= ports.Ratio(r) && (give == game.None || ports.Ratio(r) < ports.Ratio(give)) {
				give = r
			}
		}
		if get == game.None || give == game.None {
			return false
		}
		if err := m.Trade(player, give, get); err != nil {
			return false
		}
	}
	return true
}

// Execute builds the top of the plan if the player can pay for it, trading
// first when needed. It pops what was built. A top piece that has become
// illegal clears the plan and returns ErrStalePlan.
func (m *Master) Execute(player int, plan *planner.BuildPlan) (bool, error) {
	top, ok := plan.Peek()
	if !ok {
		return false, nil
	}
	if top.Type() == game.Card {
		if m.Game.DeckSize() == 0 {
			plan.Clear()
			return false, fmt.Errorf("card: %w", ErrStalePlan)
		}
		if !m.tradeFor(player, game.CardCost) {
			return false, nil
		}
		if _, err := m.BuyCard(player); err != nil {
			return false, err
		}
		plan.Pop()
		return true, nil
	}

	pc, _ := tracker.Placement(top)
	pc.Player = player
	if !m.isLegal(pc) {
		plan.Clear()
		return false, fmt.Errorf("%s: %w", pc, ErrStalePlan)
	}
	cost := pc.Type.Cost()
	if !m.tradeFor(player, cost) {
		return false, nil
	}
	if err := m.Game.PutPiece(pc); err != nil {
		return false, err
	}
	pl := m.Game.Players[player]
	pl.Resources = pl.Resources.Subtract(cost)
	plan.Pop()
	log.Debug().Msgf("player %d built %s", player, pc)
	return true, nil
}

func (m *Master) isLegal(pc game.Piece) bool {
	g := m.Game
	if g.Players[pc.Player].PiecesLeft(pc.Type) == 0 {
		return false
	}
	switch pc.Type {
	case game.Settlement:
		return g.IsLegalSettlement(pc.Player, game.NodeID(pc.Coord))
	case game.City:
		return g.IsLegalCity(pc.Player, game.NodeID(pc.Coord))
	case game.Road:
		return g.IsLegalRoad(pc.Player, game.EdgeID(pc.Coord))
	}
	return false
}

// SetupPlacement puts a settlement on the open site with the most pips and
// a road next to it. The second placement collects one card per adjacent
// producing hex.
func (m *Master) SetupPlacement(player int, second bool) error {
	g := m.Game
	best := game.NodeID(game.None)
	for _, n := range g.Board.Nodes {
		if g.IsPotentialSettlement(n.ID) && (best == game.None || g.SettlementValue(n.ID) > g.SettlementValue(best)) {
			best = n.ID
		}
	}
	if best == game.None {
		return fmt.Errorf("player %d has no open site: %w", player, game.ErrIllegalPlacement)
	}
	if err := g.PutPiece(game.Piece{Type: game.Settlement, Player: player, Coord: int(best)}); err != nil {
		return err
	}

	road := game.EdgeID(game.None)
	bestValue := -1
	for _, e := range g.Board.Nodes[best].Edges {
		if !g.IsLegalRoad(player, e) {
			continue
		}
		far := g.Board.Edges[e].Other(best)
		value := 0
		for _, next := range g.Board.Nodes[far].Neighbors {
			if g.IsPotentialSettlement(next) {
				value = max(value, g.SettlementValue(next))
			}
		}
		if value > bestValue {
			road, bestValue = e, value
		}
	}
	if road != game.None {
		if err := g.PutPiece(game.Piece{Type: game.Road, Player: player, Coord: int(road)}); err != nil {
			return err
		}
	}

	if second {
		for _, h := range g.Board.Nodes[best].Hexes {
			hex := g.Board.Hexes[h]
			if hex.Number != 0 && hex.Resource >= 0 && hex.Resource < game.NumResources {
				g.Players[player].Resources[hex.Resource]++
			}
		}
	}
	return nil
}

// Setup runs both snake-order placement rounds and starts play.
func (m *Master) Setup() error {
	seats := m.Game.Seats()
	for i := 0; i < seats; i++ {
		if err := m.SetupPlacement(i, false); err != nil {
			return err
		}
	}
	for i := seats - 1; i >= 0; i-- {
		if err := m.SetupPlacement(i, true); err != nil {
			return err
		}
	}
	m.Game.Phase = game.PlayPhase
	m.Game.Current = 0
	return nil
}

// EndTurn ages the current player's new cards and passes the dice.
func (m *Master) EndTurn() {
	g := m.Game
	pl := g.Players[g.Current]
	pl.DevCards.Age()
	pl.PlayedDevCard = false
	g.Current = (g.Current + 1) % g.Seats()
	g.Turn++
	if g.Winner() != game.None {
		g.Phase = game.OverPhase
	}
}
