package tracker

import (
	"settlers/game"
)

func (s *Set) updateThreats() {
	for _, t := range s.Trackers {
		for _, p := range t.Settlements {
			p.Threats = s.settlementThreats(t.Player, p)
			p.BiggestThreats = biggest(p.Threats)
		}
		for _, p := range t.Roads {
			p.Threats = s.roadThreats(t.Player, p)
			p.BiggestThreats = biggest(p.Threats)
		}
	}
}

// A site is threatened by rival sites on it or next to it, and by rival
// roads on the roads leading to it.
func (s *Set) settlementThreats(player int, p *Settlement) []Threat {
	var threats []Threat
	n := game.NodeID(p.Coord)
	for _, rival := range s.Trackers {
		if rival.Player == player {
			continue
		}
		if rs, ok := rival.Settlements[n]; ok {
			threats = append(threats, threatOf(rs))
		}
		for _, m := range s.Game.Board.Nodes[n].Neighbors {
			if rs, ok := rival.Settlements[m]; ok {
				threats = append(threats, threatOf(rs))
			}
		}
		for _, e := range p.NecessaryRoads {
			if rr, ok := rival.Roads[e]; ok {
				threats = append(threats, threatOf(rr))
			}
		}
	}
	return threats
}

// A road is threatened by rival roads on the same edge and rival sites at its ends.
func (s *Set) roadThreats(player int, p *Road) []Threat {
	var threats []Threat
	edge := s.Game.Board.Edges[p.Coord]
	for _, rival := range s.Trackers {
		if rival.Player == player {
			continue
		}
		if rr, ok := rival.Roads[game.EdgeID(p.Coord)]; ok {
			threats = append(threats, threatOf(rr))
		}
		for _, n := range edge.Nodes {
			if rs, ok := rival.Settlements[n]; ok {
				threats = append(threats, threatOf(rs))
			}
		}
	}
	return threats
}

func threatOf(p Piece) Threat {
	b := p.Base()
	return Threat{Player: b.Player, Type: p.Type(), Coord: b.Coord, ETA: b.ETA}
}

// biggest keeps the threats that could land soonest.
func biggest(threats []Threat) []Threat {
	if len(threats) == 0 {
		return nil
	}
	soonest := threats[0].ETA
	for _, t := range threats[1:] {
		soonest = min(soonest, t.ETA)
	}
	var out []Threat
	for _, t := range threats {
		if t.ETA == soonest {
			out = append(out, t)
		}
	}
	return out
}
