package game

// IsPotentialSettlement reports whether a settlement could ever go on n:
// an empty land node with no occupied neighbour.
func (g *Game) IsPotentialSettlement(n NodeID) bool {
	if !g.Board.IsLand(n) || g.NodeOwner[n] != None {
		return false
	}
	for _, m := range g.Board.Nodes[n].Neighbors {
		if g.NodeOwner[m] != None {
			return false
		}
	}
	return true
}

func (g *Game) IsLegalSettlement(player int, n NodeID) bool {
	if !g.IsPotentialSettlement(n) {
		return false
	}
	return g.Phase == SetupPhase || g.HasRoadAt(player, n)
}

func (g *Game) IsLegalCity(player int, n NodeID) bool {
	return g.NodeOwner[n] == player && !g.Cities[n]
}

// IsLegalRoad reports whether player may build on e: it must be empty and
// touch the player's piece, or the player's road through a node that no
// rival occupies.
func (g *Game) IsLegalRoad(player int, e EdgeID) bool {
	if g.EdgeOwner[e] != None {
		return false
	}
	for _, n := range g.Board.Edges[e].Nodes {
		if g.NodeOwner[n] == player {
			return true
		}
		if g.IsBlocked(player, n) {
			continue
		}
		for _, other := range g.Board.Nodes[n].Edges {
			if other != e && g.EdgeOwner[other] == player {
				return true
			}
		}
	}
	return false
}

// IsBlocked reports whether a rival's piece sits on n.
func (g *Game) IsBlocked(player int, n NodeID) bool {
	owner := g.NodeOwner[n]
	return owner != None && owner != player
}

func (g *Game) HasRoadAt(player int, n NodeID) bool {
	for _, e := range g.Board.Nodes[n].Edges {
		if g.EdgeOwner[e] == player {
			return true
		}
	}
	return false
}

// NetworkNodes lists the nodes player can build roads from: its own pieces
// and the ends of its roads that no rival occupies.
func (g *Game) NetworkNodes(player int) []NodeID {
	seen := make([]bool, len(g.Board.Nodes))
	nodes := []NodeID{}
	add := func(n NodeID) {
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	for n, owner := range g.NodeOwner {
		if owner == player {
			add(NodeID(n))
		}
	}
	for e, owner := range g.EdgeOwner {
		if owner != player {
			continue
		}
		for _, n := range g.Board.Edges[e].Nodes {
			if !g.IsBlocked(player, n) {
				add(n)
			}
		}
	}
	return nodes
}

// Pieces lists the settlements and cities player has on the board.
func (g *Game) Pieces(player int) []Piece {
	pieces := []Piece{}
	for n, owner := range g.NodeOwner {
		if owner != player {
			continue
		}
		t := Settlement
		if g.Cities[n] {
			t = City
		}
		pieces = append(pieces, Piece{Type: t, Player: player, Coord: n})
	}
	return pieces
}
