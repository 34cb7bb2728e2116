package tracker

import (
	"golang.org/x/exp/slices"

	"settlers/game"
)

// maxRaceSteps bounds the points simulated by RecalcWinGameETA.
const maxRaceSteps = 2 * game.WinningVP

// UpdateWinGameETAs recomputes every player's win ETA in player order.
// A player's estimate only reads the board, so one pass is enough.
func (s *Set) UpdateWinGameETAs() {
	for _, t := range s.Trackers {
		s.RecalcWinGameETA(t.Player)
	}
}

// LeaderETA is the lowest win ETA at the table.
func (s *Set) LeaderETA() int {
	best := MaxETA
	for _, t := range s.Trackers {
		best = min(best, t.WinGameETA)
	}
	return best
}

// Leaders are the players whose win ETA equals the lowest.
func (s *Set) Leaders() []int {
	best := s.LeaderETA()
	var leaders []int
	for _, t := range s.Trackers {
		if t.WinGameETA == best {
			leaders = append(leaders, t.Player)
		}
	}
	return leaders
}

// WinGameETAs lists the cached win ETA of every player.
func (s *Set) WinGameETAs() []int {
	etas := make([]int, len(s.Trackers))
	for i, t := range s.Trackers {
		etas[i] = t.WinGameETA
	}
	return etas
}

// RecalcWinGameETA estimates how many turns player needs to reach the
// winning score, repeatedly taking whichever next point costs the fewest
// turns per point: a tracked settlement site, a city, the longest road, the
// largest army or a victory point card. Each step spends the projected hand
// of the previous one and adds the production it buys. It is MaxETA during
// setup or when no mix of pieces gets there.
func (s *Set) RecalcWinGameETA(player int) int {
	t := s.Trackers[player]
	t.WinGameETA = s.winGameETA(player)
	return t.WinGameETA
}

type raceKind int

const (
	raceSettlement raceKind = iota
	raceCity
	raceLongestRoad
	raceLargestArmy
	raceCard
)

type raceStep struct {
	kind  raceKind
	node  game.NodeID
	roads int
	cards int
	eta   int
	vp    int
	hand  game.Resources
}

type race struct {
	s      *Set
	player int
	hand   game.Resources
	prod   game.Production
	ports  game.PortFlags
	pieces [game.NumBoardPieces]int
	sites  []*Settlement
	closed map[game.NodeID]bool
	towns  []game.NodeID
	lr     int // roads to take the longest road, -1 if held or out of reach
	la     int // cards to buy for the largest army, -1 if held
	deck   int
}

func (s *Set) winGameETA(player int) int {
	g := s.Game
	if g.Phase == game.SetupPhase {
		return MaxETA
	}
	vp := g.VictoryPoints(player)
	if vp >= game.WinningVP {
		return 0
	}

	r := s.newRace(player)
	total := 0
	for step := 0; vp < game.WinningVP; step++ {
		if step >= maxRaceSteps {
			return MaxETA
		}
		next, ok := r.cheapest()
		if !ok {
			return MaxETA
		}
		total += next.eta
		vp += next.vp
		r.take(next)
	}
	return total
}

func (s *Set) newRace(player int) *race {
	g := s.Game
	pl := g.Players[player]
	r := &race{
		s:      s,
		player: player,
		hand:   pl.Resources,
		prod:   g.Production(player),
		ports:  g.Ports(player),
		pieces: pl.Pieces,
		sites:  s.Trackers[player].SortedSettlements(),
		closed: map[game.NodeID]bool{},
		lr:     -1,
		la:     -1,
		deck:   g.DeckSize(),
	}
	for _, pc := range g.Pieces(player) {
		if pc.Type == game.Settlement {
			r.towns = append(r.towns, game.NodeID(pc.Coord))
		}
	}
	if _, ok := s.LongestRoadTarget(player); ok {
		if roads := s.LongestRoadExtension(player); roads != nil {
			r.lr = len(roads)
		}
	}
	if g.LargestArmy != player {
		if k, ok := s.KnightsToBuy(player); ok {
			r.la = k
		} else {
			r.la = 0
		}
	}
	return r
}

func (r *race) estimate(target game.Resources) (int, game.Resources, bool) {
	est, err := r.s.est.Rolls(r.hand, target, r.s.cfg.cutoff, r.prod, r.ports)
	if err != nil {
		return 0, game.Resources{}, false
	}
	return est.Rolls, est.Resources.Subtract(target), true
}

// cheapest returns the option with the fewest turns per point. Earlier
// kinds win ties.
func (r *race) cheapest() (raceStep, bool) {
	var options []raceStep
	board := r.s.Game.Board

	if r.pieces[game.Settlement] > 0 {
		var best *raceStep
		bestYield := 0
		for _, site := range r.sites {
			n := game.NodeID(site.Coord)
			roads := len(site.NecessaryRoads)
			if r.closed[n] || roads > r.pieces[game.Road] {
				continue
			}
			eta, hand, ok := r.estimate(game.SettlementCost.Add(game.RoadCost.Times(roads)))
			if !ok {
				continue
			}
			yield := pipTotal(board.NodeProduction(n))
			if best == nil || eta < best.eta || (eta == best.eta && yield > bestYield) {
				best = &raceStep{kind: raceSettlement, node: n, roads: roads, eta: eta, vp: 1, hand: hand}
				bestYield = yield
			}
		}
		if best != nil {
			options = append(options, *best)
		}
	}

	if r.pieces[game.City] > 0 && len(r.towns) > 0 {
		if eta, hand, ok := r.estimate(game.CityCost); ok {
			town := r.towns[0]
			for _, n := range r.towns[1:] {
				if pipTotal(board.NodeProduction(n)) > pipTotal(board.NodeProduction(town)) {
					town = n
				}
			}
			options = append(options, raceStep{kind: raceCity, node: town, eta: eta, vp: 1, hand: hand})
		}
	}

	if r.lr >= 0 && r.lr <= r.pieces[game.Road] {
		if eta, hand, ok := r.estimate(game.RoadCost.Times(r.lr)); ok {
			options = append(options, raceStep{kind: raceLongestRoad, roads: r.lr, eta: eta, vp: game.LongestRoadVP, hand: hand})
		}
	}

	if r.la >= 0 && r.la <= r.deck {
		if eta, hand, ok := r.estimate(game.CardCost.Times(r.la)); ok {
			eta += r.s.cfg.cardPlayDelay
			options = append(options, raceStep{kind: raceLargestArmy, cards: r.la, eta: eta, vp: game.LargestArmyVP, hand: hand})
		}
	}

	perVP := game.DeckTotal() / game.DeckComposition[game.VictoryPointCard]
	if r.deck >= perVP {
		if eta, hand, ok := r.estimate(game.CardCost.Times(perVP)); ok {
			options = append(options, raceStep{kind: raceCard, cards: perVP, eta: eta, vp: 1, hand: hand})
		}
	}

	if len(options) == 0 {
		return raceStep{}, false
	}
	best := options[0]
	for _, o := range options[1:] {
		if o.eta*best.vp < best.eta*o.vp {
			best = o
		}
	}
	return best, true
}

func (r *race) take(step raceStep) {
	board := r.s.Game.Board
	r.hand = step.hand
	switch step.kind {
	case raceSettlement:
		r.prod = r.prod.Add(board.NodeProduction(step.node))
		r.ports |= board.Nodes[step.node].Port
		r.pieces[game.Settlement]--
		r.pieces[game.Road] -= step.roads
		r.closed[step.node] = true
		for _, m := range board.Nodes[step.node].Neighbors {
			r.closed[m] = true
		}
		r.towns = append(r.towns, step.node)
	case raceCity:
		r.prod = r.prod.Add(board.NodeProduction(step.node))
		r.pieces[game.City]--
		r.pieces[game.Settlement]++
		r.towns = slices.DeleteFunc(r.towns, func(n game.NodeID) bool { return n == step.node })
	case raceLongestRoad:
		r.pieces[game.Road] -= step.roads
		r.lr = -1
	case raceLargestArmy:
		r.deck -= step.cards
		r.la = -1
	case raceCard:
		r.deck -= step.cards
	}
}

func pipTotal(p game.Production) int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}
