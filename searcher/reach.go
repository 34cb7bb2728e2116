package searcher

import (
	"golang.org/x/exp/slices"

	"settlers/game"
)

// Route is the shortest chain of new roads from a player's network to Node.
type Route struct {
	Node  game.NodeID
	Roads []game.EdgeID // nearest first
}

// Reach runs a breadth-first search from every node of the player's network
// over empty edges, up to depth new roads. Routes may end on a rival's piece
// but never pass through one. Network nodes are reached with no roads.
func Reach(g *game.Game, player, depth int) map[game.NodeID]Route {
	starts := g.NetworkNodes(player)
	slices.Sort(starts)

	routes := make(map[game.NodeID]Route, len(starts))
	queue := make([]Route, 0, len(starts))
	for _, n := range starts {
		r := Route{Node: n}
		routes[n] = r
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.Roads) >= depth || g.IsBlocked(player, cur.Node) {
			continue
		}
		for _, e := range g.Board.Nodes[cur.Node].Edges {
			if g.EdgeOwner[e] != game.None {
				continue
			}
			next := g.Board.Edges[e].Other(cur.Node)
			if _, seen := routes[next]; seen {
				continue
			}
			roads := make([]game.EdgeID, len(cur.Roads), len(cur.Roads)+1)
			copy(roads, cur.Roads)
			r := Route{Node: next, Roads: append(roads, e)}
			routes[next] = r
			queue = append(queue, r)
		}
	}
	return routes
}
