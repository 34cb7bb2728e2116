package tracker

import (
	"settlers/game"
	"settlers/searcher"
)

// LongestRoadTarget is the length player has to beat for the longest road
// bonus. It reports false when player already holds it.
func (s *Set) LongestRoadTarget(player int) (int, bool) {
	g := s.Game
	switch g.LongestRoad {
	case player:
		return 0, false
	case game.None:
		return max(game.LongestRoadMinimum-1, g.Players[player].RoadLength), true
	default:
		return g.Players[g.LongestRoad].RoadLength, true
	}
}

// LongestRoadExtension searches from both ends of every road path of the
// player and returns the shortest extension that beats the target, nearest
// road first. It returns nil when there is none.
func (s *Set) LongestRoadExtension(player int) []game.EdgeID {
	target, ok := s.LongestRoadTarget(player)
	if !ok {
		return nil
	}
	g := s.Game
	pl := g.Players[player]
	pieces := pl.PiecesLeft(game.Road)

	var best []game.EdgeID
	for i, path := range pl.RoadPaths {
		depth := min(target+1-path.Length, pieces)
		if depth <= 0 {
			continue
		}
		others := make([]game.RoadPath, 0, len(pl.RoadPaths)-1)
		others = append(others, pl.RoadPaths[:i]...)
		others = append(others, pl.RoadPaths[i+1:]...)
		for _, end := range []game.NodeID{path.Start, path.End} {
			roads := searcher.LongestRoadPath(g, searcher.RoadQuery{
				Player:     player,
				Start:      end,
				PathLength: path.Length,
				Target:     target,
				Depth:      depth,
				Others:     others,
			})
			if roads != nil && (best == nil || len(roads) < len(best)) {
				best = roads
			}
		}
	}
	return best
}

// KnightsToBuy is the number of cards player has to buy to take the
// largest army. It reports false when player holds the army or already
// holds enough knight cards.
func (s *Set) KnightsToBuy(player int) (int, bool) {
	g := s.Game
	pl := g.Players[player]
	var size int
	switch g.LargestArmy {
	case player:
		return 0, false
	case game.None:
		size = game.LargestArmyMinimum
	default:
		size = g.Players[g.LargestArmy].Knights + 1
	}
	if pl.Knights+pl.DevCards.Count(game.Knight) >= size {
		return 0, false
	}
	return size - (pl.Knights + pl.DevCards.Old[game.Knight]), true
}
