package searcher

import (
	"settlers/game"
)

// Unreachable is the count reported when no extension beats the target.
const Unreachable = 500

// RoadQuery describes a longest-road extension search from one end of one
// of the player's road paths.
type RoadQuery struct {
	Player     int
	Start      game.NodeID
	PathLength int             // length of the path that ends at Start
	Target     int             // length to beat
	Depth      int             // most new roads to consider
	Others     []game.RoadPath // the player's other paths, which an extension may join
}

// RoadResult is the best extension found.
type RoadResult struct {
	Longest int           // total length reached
	Roads   []game.EdgeID // new roads, nearest first
}

// Beats reports whether the extension clears target.
func (r RoadResult) Beats(target int) bool {
	return r.Longest > target
}

type frontier struct {
	node   game.NodeID
	length int
	roads  []game.EdgeID
}

func (f frontier) uses(e game.EdgeID) bool {
	for _, r := range f.roads {
		if r == e {
			return true
		}
	}
	return false
}

// SearchLongestRoad explores every chain of new roads leading away from
// q.Start, breadth first. A chain ends when it runs into a rival's piece,
// joins another of the player's paths, reaches the depth bound, or has no
// free edge left. Longer total length wins, then fewer new roads.
// The game is only read.
func SearchLongestRoad(g *game.Game, q RoadQuery) RoadResult {
	best := RoadResult{Longest: -1}
	queue := []frontier{{node: q.Start, length: q.PathLength}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		length, done := cur.length, false
		switch {
		case g.IsBlocked(q.Player, cur.node):
			done = true
		case len(cur.roads) > 0 && joinsOther(q.Others, cur.node):
			length += joinedLength(q.Others, cur.node)
			done = true
		case len(cur.roads) >= q.Depth:
			done = true
		}

		if !done {
			expanded := false
			for _, e := range g.Board.Nodes[cur.node].Edges {
				if g.EdgeOwner[e] != game.None || cur.uses(e) {
					continue
				}
				roads := make([]game.EdgeID, len(cur.roads), len(cur.roads)+1)
				copy(roads, cur.roads)
				queue = append(queue, frontier{
					node:   g.Board.Edges[e].Other(cur.node),
					length: cur.length + 1,
					roads:  append(roads, e),
				})
				expanded = true
			}
			if expanded {
				continue
			}
		}

		if length > best.Longest || (length == best.Longest && len(cur.roads) < len(best.Roads)) {
			best = RoadResult{Longest: length, Roads: cur.roads}
		}
	}
	return best
}

// LongestRoadETA is the count mode: new roads needed to beat q.Target, or Unreachable.
func LongestRoadETA(g *game.Game, q RoadQuery) int {
	result := SearchLongestRoad(g, q)
	if !result.Beats(q.Target) {
		return Unreachable
	}
	return len(result.Roads)
}

// LongestRoadPath is the path mode: the roads to build, nearest first, or nil.
func LongestRoadPath(g *game.Game, q RoadQuery) []game.EdgeID {
	result := SearchLongestRoad(g, q)
	if !result.Beats(q.Target) {
		return nil
	}
	return result.Roads
}

func joinsOther(others []game.RoadPath, n game.NodeID) bool {
	return joinedLength(others, n) > 0
}

func joinedLength(others []game.RoadPath, n game.NodeID) int {
	longest := 0
	for _, p := range others {
		if p.IsEnd(n) {
			longest = max(longest, p.Length)
		}
	}
	return longest
}
