package game

type (
	HexID  int
	NodeID int
	EdgeID int
)

// Hex is a land tile. Number is the dice number it produces on, 0 for the desert.
type Hex struct {
	ID       HexID
	Resource Resource
	Number   int
	Nodes    []NodeID
}

// Node is a corner where settlements and cities are placed.
type Node struct {
	ID        NodeID
	Hexes     []HexID
	Edges     []EdgeID
	Neighbors []NodeID
	Port      PortFlags
}

// Edge is a side where roads are placed.
type Edge struct {
	ID    EdgeID
	Nodes [2]NodeID
}

// Other returns the end of e opposite to n.
func (e *Edge) Other(n NodeID) NodeID {
	if e.Nodes[0] == n {
		return e.Nodes[1]
	}
	return e.Nodes[0]
}

// Board is the static graph of hexes, nodes and edges. It is shared by every
// copy of a game and never changes once built.
type Board struct {
	Hexes []*Hex
	Nodes []*Node
	Edges []*Edge
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) AddNode() NodeID {
	id := NodeID(len(b.Nodes))
	b.Nodes = append(b.Nodes, &Node{ID: id})
	return id
}

// AddEdge connects two nodes. Connecting them twice returns the existing edge.
func (b *Board) AddEdge(a, c NodeID) EdgeID {
	if id, ok := b.EdgeBetween(a, c); ok {
		return id
	}
	id := EdgeID(len(b.Edges))
	b.Edges = append(b.Edges, &Edge{ID: id, Nodes: [2]NodeID{a, c}})
	b.Nodes[a].Edges = append(b.Nodes[a].Edges, id)
	b.Nodes[c].Edges = append(b.Nodes[c].Edges, id)
	b.Nodes[a].Neighbors = append(b.Nodes[a].Neighbors, c)
	b.Nodes[c].Neighbors = append(b.Nodes[c].Neighbors, a)
	return id
}

func (b *Board) AddHex(resource Resource, number int, nodes ...NodeID) HexID {
	id := HexID(len(b.Hexes))
	b.Hexes = append(b.Hexes, &Hex{ID: id, Resource: resource, Number: number, Nodes: nodes})
	for _, n := range nodes {
		b.Nodes[n].Hexes = append(b.Nodes[n].Hexes, id)
	}
	return id
}

func (b *Board) SetPort(n NodeID, port PortFlags) {
	b.Nodes[n].Port = port
}

func (b *Board) EdgeBetween(a, c NodeID) (EdgeID, bool) {
	for _, id := range b.Nodes[a].Edges {
		if b.Edges[id].Other(a) == c {
			return id, true
		}
	}
	return 0, false
}

// IsLand reports whether a node touches at least one land hex.
func (b *Board) IsLand(n NodeID) bool {
	return len(b.Nodes[n].Hexes) > 0
}

// Pips is the number of two-dice combinations that roll n, out of 36.
func Pips(n int) int {
	if n < 2 || n > 12 || n == 7 {
		return 0
	}
	if n < 7 {
		return n - 1
	}
	return 13 - n
}

// NodeProduction is what one settlement on n yields per roll.
func (b *Board) NodeProduction(n NodeID) Production {
	var p Production
	for _, h := range b.Nodes[n].Hexes {
		hex := b.Hexes[h]
		if hex.Number == 0 || hex.Resource < 0 || hex.Resource >= NumResources {
			continue
		}
		p[hex.Resource] += Pips(hex.Number)
	}
	return p
}
