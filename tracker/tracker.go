package tracker

import (
	"golang.org/x/exp/slices"

	"settlers/game"
	"settlers/searcher"
)

// PlayerTracker holds one player's buildable possibilities.
type PlayerTracker struct {
	Player       int
	Settlements  map[game.NodeID]*Settlement
	Cities       map[game.NodeID]*City
	Roads        map[game.EdgeID]*Road
	BuildingETAs [game.NumPieceTypes]int
	WinGameETA   int // MaxETA until computed
}

func NewPlayerTracker(player int) *PlayerTracker {
	return &PlayerTracker{
		Player:      player,
		Settlements: map[game.NodeID]*Settlement{},
		Cities:      map[game.NodeID]*City{},
		Roads:       map[game.EdgeID]*Road{},
		WinGameETA:  MaxETA,
	}
}

func (t *PlayerTracker) copy() *PlayerTracker {
	c := *t
	c.Settlements = make(map[game.NodeID]*Settlement, len(t.Settlements))
	for n, p := range t.Settlements {
		c.Settlements[n] = p.Clone().(*Settlement)
	}
	c.Cities = make(map[game.NodeID]*City, len(t.Cities))
	for n, p := range t.Cities {
		c.Cities[n] = p.Clone().(*City)
	}
	c.Roads = make(map[game.EdgeID]*Road, len(t.Roads))
	for e, p := range t.Roads {
		c.Roads[e] = p.Clone().(*Road)
	}
	return &c
}

// SortedSettlements lists possible settlements by node.
func (t *PlayerTracker) SortedSettlements() []*Settlement {
	out := make([]*Settlement, 0, len(t.Settlements))
	for _, p := range t.Settlements {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Settlement) int { return a.Coord - b.Coord })
	return out
}

func (t *PlayerTracker) SortedCities() []*City {
	out := make([]*City, 0, len(t.Cities))
	for _, p := range t.Cities {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *City) int { return a.Coord - b.Coord })
	return out
}

func (t *PlayerTracker) SortedRoads() []*Road {
	out := make([]*Road, 0, len(t.Roads))
	for _, p := range t.Roads {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Road) int { return a.Coord - b.Coord })
	return out
}

// Lookup finds the tracked possibility a piece refers to.
func (t *PlayerTracker) Lookup(p Piece) (Piece, bool) {
	switch p.Type() {
	case game.Settlement:
		if s, ok := t.Settlements[game.NodeID(p.Base().Coord)]; ok {
			return s, true
		}
	case game.City:
		if c, ok := t.Cities[game.NodeID(p.Base().Coord)]; ok {
			return c, true
		}
	case game.Road:
		if r, ok := t.Roads[game.EdgeID(p.Base().Coord)]; ok {
			return r, true
		}
	}
	return nil, false
}

func (t *PlayerTracker) resetScores() {
	for _, p := range t.Settlements {
		p.ResetScore()
	}
	for _, p := range t.Cities {
		p.ResetScore()
	}
	for _, p := range t.Roads {
		p.ResetScore()
	}
}

// refresh rebuilds every possibility from the board.
func (t *PlayerTracker) refresh(s *Set) {
	g := s.Game
	pl := g.Players[t.Player]
	prod := g.Production(t.Player)
	ports := g.Ports(t.Player)

	t.WinGameETA = MaxETA
	t.BuildingETAs = s.est.BuildingETAs(pl.Resources, prod, ports, s.cfg.cutoff, s.cfg.sentinel)
	t.Settlements = map[game.NodeID]*Settlement{}
	t.Cities = map[game.NodeID]*City{}
	t.Roads = map[game.EdgeID]*Road{}

	for _, piece := range g.Pieces(t.Player) {
		if piece.Type != game.Settlement {
			continue
		}
		n := game.NodeID(piece.Coord)
		c := NewCity(t.Player, n)
		c.ETA = t.BuildingETAs[game.City]
		c.Speedup = s.est.Speedup(prod, g.Board.NodeProduction(n), ports, 0, s.cfg.cutoff)
		t.Cities[n] = c
	}

	if len(g.NetworkNodes(t.Player)) == 0 {
		// Opening placement: every open site is available.
		for _, node := range g.Board.Nodes {
			if g.IsPotentialSettlement(node.ID) {
				t.Settlements[node.ID] = t.newSettlement(s, node.ID, nil, prod, ports)
			}
		}
		return
	}

	routes := searcher.Reach(g, t.Player, s.cfg.reachDepth)
	nodes := make([]game.NodeID, 0, len(routes))
	for n := range routes {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)

	for _, n := range nodes {
		route := routes[n]
		if k := len(route.Roads); k > 0 {
			e := route.Roads[k-1]
			r := t.newRoad(s, e, n, slices.Clone(route.Roads[:k-1]), prod, ports)
			t.Roads[e] = r
		}
		if g.IsPotentialSettlement(n) {
			t.Settlements[n] = t.newSettlement(s, n, slices.Clone(route.Roads), prod, ports)
		}
	}

	// Legal roads between two network nodes never show up as tree edges.
	for _, edge := range g.Board.Edges {
		if _, ok := t.Roads[edge.ID]; ok || !g.IsLegalRoad(t.Player, edge.ID) {
			continue
		}
		far := edge.Nodes[1]
		if _, reached := routes[far]; reached {
			far = edge.Nodes[0]
		}
		t.Roads[edge.ID] = t.newRoad(s, edge.ID, far, nil, prod, ports)
	}
}

func (t *PlayerTracker) newSettlement(s *Set, n game.NodeID, roads []game.EdgeID, prod game.Production, ports game.PortFlags) *Settlement {
	g := s.Game
	pl := g.Players[t.Player]
	p := NewSettlement(t.Player, n)
	p.NecessaryRoads = roads
	if pl.PiecesLeft(game.Settlement) == 0 {
		p.ETA = s.cfg.sentinel
	} else {
		target := game.SettlementCost.Add(game.RoadCost.Times(len(roads)))
		p.ETA = s.est.RollsOrSentinel(pl.Resources, target, s.cfg.cutoff, prod, ports, s.cfg.sentinel)
	}
	p.Speedup = s.est.Speedup(prod, g.Board.NodeProduction(n), ports, g.Board.Nodes[n].Port, s.cfg.cutoff)
	return p
}

func (t *PlayerTracker) newRoad(s *Set, e game.EdgeID, far game.NodeID, before []game.EdgeID, prod game.Production, ports game.PortFlags) *Road {
	g := s.Game
	pl := g.Players[t.Player]
	r := NewRoad(t.Player, e)
	r.NecessaryRoads = before
	target := game.RoadCost.Times(len(before) + 1)
	r.ETA = s.est.RollsOrSentinel(pl.Resources, target, s.cfg.cutoff, prod, ports, s.cfg.sentinel)
	if g.IsPotentialSettlement(far) {
		r.Unlocks = []game.NodeID{far}
	}
	if !g.IsBlocked(t.Player, far) {
		for _, next := range g.Board.Nodes[far].Edges {
			if next != e && g.EdgeOwner[next] == game.None {
				r.NewRoads = append(r.NewRoads, next)
			}
		}
	}
	return r
}
