package game

import "fmt"

// PieceType is something a player can build or buy.
type PieceType int

const (
	Road PieceType = iota
	Settlement
	City
	Card
)

// NumPieceTypes counts the buildable types, the card purchase included.
const NumPieceTypes = 4

// NumBoardPieces counts the types placed on the board.
const NumBoardPieces = 3

var StartingPieces = [NumBoardPieces]int{Road: 15, Settlement: 5, City: 4}

var pieceNames = [...]string{"road", "settlement", "city", "card"}

func (t PieceType) String() string {
	if t < 0 || int(t) >= len(pieceNames) {
		return fmt.Sprintf("piece(%d)", int(t))
	}
	return pieceNames[t]
}

func (t PieceType) Cost() Resources {
	switch t {
	case Road:
		return RoadCost
	case Settlement:
		return SettlementCost
	case City:
		return CityCost
	default:
		return CardCost
	}
}

// Piece is a placement on the board. Coord is a NodeID for settlements
// and cities and an EdgeID for roads.
type Piece struct {
	Type   PieceType
	Player int
	Coord  int
}

func (p Piece) String() string {
	return fmt.Sprintf("%s@%d(p%d)", p.Type, p.Coord, p.Player)
}
