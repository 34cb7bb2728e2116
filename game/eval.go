package game

// Production is the per-roll yield of a player's settlements and cities.
func (g *Game) Production(player int) Production {
	var p Production
	for n, owner := range g.NodeOwner {
		if owner != player {
			continue
		}
		yield := g.Board.NodeProduction(NodeID(n))
		p = p.Add(yield)
		if g.Cities[n] {
			p = p.Add(yield)
		}
	}
	return p
}

// Ports collects the ports under a player's settlements and cities.
func (g *Game) Ports(player int) PortFlags {
	var ports PortFlags
	for n, owner := range g.NodeOwner {
		if owner == player {
			ports |= g.Board.Nodes[n].Port
		}
	}
	return ports
}

// SettlementValue ranks an empty node for opening placements by total pips,
// with a small bonus for resource diversity.
func (g *Game) SettlementValue(n NodeID) int {
	yield := g.Board.NodeProduction(n)
	value := 0
	for _, pips := range yield {
		if pips > 0 {
			value += pips + 1
		}
	}
	if g.Board.Nodes[n].Port != 0 {
		value++
	}
	return value
}
