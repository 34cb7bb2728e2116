package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

type Phase int

const (
	SetupPhase Phase = iota
	PlayPhase
	SpecialBuildingPhase
	OverPhase
)

// Game is the mutable state on top of a Board.
type Game struct {
	ID          uuid.UUID
	Board       *Board
	Players     []*Player
	NodeOwner   []int  // owning player per node, None if empty
	Cities      []bool // whether the piece on a node is a city
	EdgeOwner   []int  // owning player per edge, None if empty
	Deck        [NumDevCardTypes]int
	LongestRoad int // holder, None if nobody
	LargestArmy int // holder, None if nobody
	Phase       Phase
	Current     int
	Turn        int
}

func NewGame(b *Board, seats int) *Game {
	g := &Game{
		ID:          uuid.New(),
		Board:       b,
		Players:     make([]*Player, seats),
		NodeOwner:   make([]int, len(b.Nodes)),
		Cities:      make([]bool, len(b.Nodes)),
		EdgeOwner:   make([]int, len(b.Edges)),
		Deck:        DeckComposition,
		LongestRoad: None,
		LargestArmy: None,
		Phase:       SetupPhase,
	}
	for i := range g.Players {
		g.Players[i] = NewPlayer(i)
	}
	for i := range g.NodeOwner {
		g.NodeOwner[i] = None
	}
	for i := range g.EdgeOwner {
		g.EdgeOwner[i] = None
	}
	return g
}

// Copy returns a deep copy sharing only the static board.
func (g *Game) Copy() *Game {
	c := *g
	c.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p.Copy()
	}
	c.NodeOwner = append([]int(nil), g.NodeOwner...)
	c.Cities = append([]bool(nil), g.Cities...)
	c.EdgeOwner = append([]int(nil), g.EdgeOwner...)
	return &c
}

func (g *Game) Player(n int) *Player {
	return g.Players[n]
}

func (g *Game) Seats() int {
	return len(g.Players)
}

func (g *Game) DeckSize() int {
	total := 0
	for _, n := range g.Deck {
		total += n
	}
	return total
}

// DrawCard takes a random card from the deck.
func (g *Game) DrawCard(rng *rand.Rand) (DevCardType, error) {
	size := g.DeckSize()
	if size == 0 {
		return 0, ErrEmptyDeck
	}
	pick := rng.Intn(size)
	for t, n := range g.Deck {
		if pick < n {
			g.Deck[t]--
			return DevCardType(t), nil
		}
		pick -= n
	}
	panic("unreachable")
}

// PutTempPiece places a piece without any legality check or payment.
// UndoPutTempPiece with the same piece is its exact inverse.
func (g *Game) PutTempPiece(p Piece) {
	pl := g.Players[p.Player]
	switch p.Type {
	case Road:
		g.EdgeOwner[p.Coord] = p.Player
		pl.Pieces[Road]--
	case Settlement:
		g.NodeOwner[p.Coord] = p.Player
		pl.Pieces[Settlement]--
	case City:
		g.NodeOwner[p.Coord] = p.Player
		g.Cities[p.Coord] = true
		pl.Pieces[City]--
		pl.Pieces[Settlement]++
	}
}

func (g *Game) UndoPutTempPiece(p Piece) {
	pl := g.Players[p.Player]
	switch p.Type {
	case Road:
		g.EdgeOwner[p.Coord] = None
		pl.Pieces[Road]++
	case Settlement:
		g.NodeOwner[p.Coord] = None
		pl.Pieces[Settlement]++
	case City:
		g.Cities[p.Coord] = false
		pl.Pieces[City]++
		pl.Pieces[Settlement]--
	}
}

// PutPiece places a legal piece and updates the longest road. It does not charge resources.
func (g *Game) PutPiece(p Piece) error {
	if p.Player < 0 || p.Player >= len(g.Players) {
		return fmt.Errorf("player %d: %w", p.Player, ErrIllegalPlacement)
	}
	if g.Players[p.Player].PiecesLeft(p.Type) <= 0 {
		return fmt.Errorf("%s: %w", p, ErrNoPieces)
	}
	var legal bool
	switch p.Type {
	case Road:
		legal = g.IsLegalRoad(p.Player, EdgeID(p.Coord))
	case Settlement:
		legal = g.IsLegalSettlement(p.Player, NodeID(p.Coord))
	case City:
		legal = g.IsLegalCity(p.Player, NodeID(p.Coord))
	}
	if !legal {
		return fmt.Errorf("%s: %w", p, ErrIllegalPlacement)
	}
	g.PutTempPiece(p)
	g.UpdateLongestRoad()
	return nil
}

// VictoryPoints counts public points plus VP cards in hand.
func (g *Game) VictoryPoints(player int) int {
	vp := 0
	for n, owner := range g.NodeOwner {
		if owner != player {
			continue
		}
		if g.Cities[n] {
			vp += 2
		} else {
			vp++
		}
	}
	if g.LongestRoad == player {
		vp += LongestRoadVP
	}
	if g.LargestArmy == player {
		vp += LargestArmyVP
	}
	return vp + g.Players[player].HiddenVP()
}

// Winner returns the first player with enough points, None otherwise.
func (g *Game) Winner() int {
	for i := range g.Players {
		if g.VictoryPoints(i) >= WinningVP {
			return i
		}
	}
	return None
}

// LargestArmyState is what SaveLargestArmyState captures.
type LargestArmyState struct {
	Holder int
}

func (g *Game) SaveLargestArmyState() LargestArmyState {
	return LargestArmyState{Holder: g.LargestArmy}
}

func (g *Game) RestoreLargestArmyState(s LargestArmyState) {
	g.LargestArmy = s.Holder
}

// UpdateLargestArmy keeps the holder unless someone has strictly more knights.
func (g *Game) UpdateLargestArmy() {
	most := 0
	for _, p := range g.Players {
		most = max(most, p.Knights)
	}
	if g.LargestArmy != None && g.Players[g.LargestArmy].Knights == most {
		return
	}
	g.LargestArmy = uniqueLeader(g.Players, most, LargestArmyMinimum, func(p *Player) int { return p.Knights })
}

func uniqueLeader(players []*Player, most, minimum int, value func(*Player) int) int {
	if most < minimum {
		return None
	}
	leader := None
	for _, p := range players {
		if value(p) != most {
			continue
		}
		if leader != None {
			return None
		}
		leader = p.Number
	}
	return leader
}

func (g *Game) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(g.Current))
	binary.Write(hasher, binary.LittleEndian, int64(g.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(g.LongestRoad))
	binary.Write(hasher, binary.LittleEndian, int64(g.LargestArmy))

	for _, owner := range g.NodeOwner {
		binary.Write(hasher, binary.LittleEndian, int64(owner))
	}
	for _, city := range g.Cities {
		binary.Write(hasher, binary.LittleEndian, city)
	}
	for _, owner := range g.EdgeOwner {
		binary.Write(hasher, binary.LittleEndian, int64(owner))
	}
	for _, n := range g.Deck {
		binary.Write(hasher, binary.LittleEndian, int64(n))
	}

	for _, p := range g.Players {
		for _, n := range p.Resources {
			binary.Write(hasher, binary.LittleEndian, int64(n))
		}
		for _, n := range p.Pieces {
			binary.Write(hasher, binary.LittleEndian, int64(n))
		}
		for t := range p.DevCards.New {
			binary.Write(hasher, binary.LittleEndian, int64(p.DevCards.New[t]))
			binary.Write(hasher, binary.LittleEndian, int64(p.DevCards.Old[t]))
		}
		binary.Write(hasher, binary.LittleEndian, int64(p.Knights))
	}

	return StateHash(hasher.Sum64())
}
