package game

import (
	"cmp"
	"math"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

const desert = Unknown

// Beginner layout, hexes row by row from the top.
var beginnerResources = []Resource{
	Ore, Sheep, Wood,
	Wheat, Clay, Sheep, Clay,
	Wheat, Wood, desert, Wood, Ore,
	Wood, Ore, Wheat, Sheep,
	Clay, Wheat, Sheep,
}

var beginnerNumbers = []int{10, 2, 9, 12, 6, 4, 10, 9, 11, 3, 8, 8, 3, 4, 5, 5, 6, 11}

var beginnerPorts = []PortFlags{
	MiscPort, ResourcePort(Sheep), MiscPort, MiscPort, ResourcePort(Clay),
	ResourcePort(Wood), MiscPort, ResourcePort(Wheat), ResourcePort(Ore),
}

// NewBeginnerBoard builds the fixed 19-hex layout.
func NewBeginnerBoard() *Board {
	return newStandardBoard(beginnerResources, beginnerNumbers, beginnerPorts)
}

// NewStandardBoard builds the 19-hex layout with resources, numbers and
// ports shuffled by rng.
func NewStandardBoard(rng *rand.Rand) *Board {
	resources := append([]Resource(nil), beginnerResources...)
	numbers := append([]int(nil), beginnerNumbers...)
	ports := append([]PortFlags(nil), beginnerPorts...)
	rng.Shuffle(len(resources), func(i, j int) { resources[i], resources[j] = resources[j], resources[i] })
	rng.Shuffle(len(numbers), func(i, j int) { numbers[i], numbers[j] = numbers[j], numbers[i] })
	rng.Shuffle(len(ports), func(i, j int) { ports[i], ports[j] = ports[j], ports[i] })
	return newStandardBoard(resources, numbers, ports)
}

type point struct{ x, y int }

// Corner offsets of a pointy-top hex, clockwise from the top, in a lattice
// where a hex centre sits at (2q+r, 3r).
var cornerOffsets = [6]point{{0, -2}, {1, -1}, {1, 1}, {0, 2}, {-1, 1}, {-1, -1}}

func newStandardBoard(resources []Resource, numbers []int, ports []PortFlags) *Board {
	b := NewBoard()
	nodes := map[point]NodeID{}
	nodeAt := func(p point) NodeID {
		if id, ok := nodes[p]; ok {
			return id
		}
		id := b.AddNode()
		nodes[p] = id
		return id
	}

	hexEdges := map[EdgeID]int{}
	edgeMid := map[EdgeID]point{}
	i, k := 0, 0
	for r := -2; r <= 2; r++ {
		for q := max(-2, -r-2); q <= min(2, -r+2); q++ {
			centre := point{2*q + r, 3 * r}
			corners := make([]NodeID, 6)
			for c, off := range cornerOffsets {
				corners[c] = nodeAt(point{centre.x + off.x, centre.y + off.y})
			}
			for c := range corners {
				a, z := corners[c], corners[(c+1)%6]
				e := b.AddEdge(a, z)
				hexEdges[e]++
				pa, pz := cornerOffsets[c], cornerOffsets[(c+1)%6]
				edgeMid[e] = point{2*centre.x + pa.x + pz.x, 2*centre.y + pa.y + pz.y}
			}
			number := 0
			if resources[i] != desert {
				number = numbers[k]
				k++
			}
			b.AddHex(resources[i], number, corners...)
			i++
		}
	}

	// Ports sit on coastal edges spread evenly around the island.
	coast := []EdgeID{}
	for e, n := range hexEdges {
		if n == 1 {
			coast = append(coast, e)
		}
	}
	angle := func(e EdgeID) float64 {
		m := edgeMid[e]
		return math.Atan2(float64(m.y)*math.Sqrt(3)/3, float64(m.x))
	}
	slices.SortFunc(coast, func(a, z EdgeID) int { return cmp.Compare(angle(a), angle(z)) })
	for p, port := range ports {
		e := b.Edges[coast[p*len(coast)/len(ports)]]
		b.SetPort(e.Nodes[0], port)
		b.SetPort(e.Nodes[1], port)
	}
	return b
}
