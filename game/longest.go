package game

// RoadPath is the longest trail of one connected road network.
type RoadPath struct {
	Start  NodeID
	End    NodeID
	Length int
	Edges  []EdgeID // from Start to End
}

func (r RoadPath) Copy() RoadPath {
	r.Edges = append([]EdgeID(nil), r.Edges...)
	return r
}

// IsEnd reports whether n is either end of the path.
func (r RoadPath) IsEnd(n NodeID) bool {
	return r.Start == n || r.End == n
}

// RoadPaths returns the longest trail of each of player's road networks,
// longest first. A rival's settlement cuts a network in two.
func (g *Game) RoadPaths(player int) []RoadPath {
	component := make([]int, len(g.Board.Edges))
	for i := range component {
		component[i] = None
	}
	count := 0
	for e, owner := range g.EdgeOwner {
		if owner != player || component[e] != None {
			continue
		}
		g.markComponent(player, EdgeID(e), count, component)
		count++
	}

	paths := make([]RoadPath, count)
	visited := make([]bool, len(g.Board.Edges))
	for e, c := range component {
		if c == None {
			continue
		}
		for _, n := range g.Board.Edges[e].Nodes {
			g.trail(player, component, c, n, n, visited, nil, &paths[c])
		}
	}

	// Stable insertion sort keeps network order for equal lengths.
	for i := 1; i < len(paths); i++ {
		for j := i; j > 0 && paths[j].Length > paths[j-1].Length; j-- {
			paths[j], paths[j-1] = paths[j-1], paths[j]
		}
	}
	return paths
}

func (g *Game) markComponent(player int, from EdgeID, id int, component []int) {
	stack := []EdgeID{from}
	component[from] = id
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range g.Board.Edges[e].Nodes {
			if g.IsBlocked(player, n) {
				continue
			}
			for _, next := range g.Board.Nodes[n].Edges {
				if g.EdgeOwner[next] == player && component[next] == None {
					component[next] = id
					stack = append(stack, next)
				}
			}
		}
	}
}

func (g *Game) trail(player int, component []int, c int, start, n NodeID, visited []bool, path []EdgeID, best *RoadPath) {
	for _, e := range g.Board.Nodes[n].Edges {
		if component[e] != c || visited[e] {
			continue
		}
		m := g.Board.Edges[e].Other(n)
		visited[e] = true
		path = append(path, e)
		if len(path) > best.Length {
			*best = RoadPath{Start: start, End: m, Length: len(path), Edges: append([]EdgeID(nil), path...)}
		}
		if !g.IsBlocked(player, m) {
			g.trail(player, component, c, start, m, visited, path, best)
		}
		path = path[:len(path)-1]
		visited[e] = false
	}
}

// UpdateLongestRoad refreshes every player's paths and the bonus holder.
// The holder keeps the bonus on a tie.
func (g *Game) UpdateLongestRoad() {
	longest := 0
	for _, p := range g.Players {
		p.RoadPaths = g.RoadPaths(p.Number)
		p.RoadLength = 0
		if len(p.RoadPaths) > 0 {
			p.RoadLength = p.RoadPaths[0].Length
		}
		longest = max(longest, p.RoadLength)
	}
	if g.LongestRoad != None && g.Players[g.LongestRoad].RoadLength == longest && longest >= LongestRoadMinimum {
		return
	}
	g.LongestRoad = uniqueLeader(g.Players, longest, LongestRoadMinimum, func(p *Player) int { return p.RoadLength })
}
