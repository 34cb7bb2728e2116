package tracker

import (
	"fmt"

	"golang.org/x/exp/slices"

	"settlers/game"
)

// Possibility is what every possible piece carries.
type Possibility struct {
	Player         int
	Coord          int
	Score          float64 // accumulated during one planning cycle
	ETA            int
	NecessaryRoads []game.EdgeID // to build first, nearest first
	Threats        []Threat
	BiggestThreats []Threat
}

// Threat is a rival's possible piece that would block ours if built first.
type Threat struct {
	Player int
	Type   game.PieceType
	Coord  int
	ETA    int
}

// Piece is one of *Settlement, *City, *Road or *Card.
type Piece interface {
	Base() *Possibility
	Type() game.PieceType
	Clone() Piece
}

type Settlement struct {
	Possibility
	Speedup int
}

type City struct {
	Possibility
	Speedup int
}

type Road struct {
	Possibility
	Unlocks  []game.NodeID // settlement sites this road makes buildable
	NewRoads []game.EdgeID // edges that become buildable from its far end
}

// Card is a development card purchase. Kind is only known for hypotheticals.
type Card struct {
	Possibility
	Kind game.DevCardType
}

func NewSettlement(player int, n game.NodeID) *Settlement {
	return &Settlement{Possibility: Possibility{Player: player, Coord: int(n)}}
}

func NewCity(player int, n game.NodeID) *City {
	return &City{Possibility: Possibility{Player: player, Coord: int(n)}}
}

func NewRoad(player int, e game.EdgeID) *Road {
	return &Road{Possibility: Possibility{Player: player, Coord: int(e)}}
}

func NewCard(player int) *Card {
	return &Card{Possibility: Possibility{Player: player, Coord: game.None}}
}

func (p *Settlement) Base() *Possibility { return &p.Possibility }
func (p *City) Base() *Possibility       { return &p.Possibility }
func (p *Road) Base() *Possibility       { return &p.Possibility }
func (p *Card) Base() *Possibility       { return &p.Possibility }

func (p *Settlement) Type() game.PieceType { return game.Settlement }
func (p *City) Type() game.PieceType       { return game.City }
func (p *Road) Type() game.PieceType       { return game.Road }
func (p *Card) Type() game.PieceType       { return game.Card }

func (p Possibility) clone() Possibility {
	p.NecessaryRoads = slices.Clone(p.NecessaryRoads)
	p.Threats = slices.Clone(p.Threats)
	p.BiggestThreats = slices.Clone(p.BiggestThreats)
	return p
}

func (p *Settlement) Clone() Piece {
	c := *p
	c.Possibility = p.Possibility.clone()
	return &c
}

func (p *City) Clone() Piece {
	c := *p
	c.Possibility = p.Possibility.clone()
	return &c
}

func (p *Road) Clone() Piece {
	c := *p
	c.Possibility = p.Possibility.clone()
	c.Unlocks = slices.Clone(p.Unlocks)
	c.NewRoads = slices.Clone(p.NewRoads)
	return &c
}

func (p *Card) Clone() Piece {
	c := *p
	c.Possibility = p.Possibility.clone()
	return &c
}

// Placement is the board piece a possible piece stands for. Cards have none.
func Placement(p Piece) (game.Piece, bool) {
	if p.Type() == game.Card {
		return game.Piece{}, false
	}
	b := p.Base()
	return game.Piece{Type: p.Type(), Player: b.Player, Coord: b.Coord}, true
}

func Describe(p Piece) string {
	b := p.Base()
	if p.Type() == game.Card {
		return fmt.Sprintf("card(p%d eta=%d)", b.Player, b.ETA)
	}
	return fmt.Sprintf("%s@%d(p%d eta=%d roads=%d)", p.Type(), b.Coord, b.Player, b.ETA, len(b.NecessaryRoads))
}

// IsThreatened reports whether any rival piece could block this one.
func (p *Possibility) IsThreatened() bool {
	return len(p.Threats) > 0
}

func (p *Possibility) ResetScore() {
	p.Score = 0
}

// AddToScore accumulates a bonus.
func (p *Possibility) AddToScore(bonus float64) {
	p.Score += bonus
}
