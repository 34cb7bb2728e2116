package game

import "errors"

const (
	WinningVP          = 10
	LongestRoadMinimum = 5
	LargestArmyMinimum = 3
	LongestRoadVP      = 2
	LargestArmyVP      = 2
)

// None marks an empty node or edge, or a bonus nobody holds.
const None = -1

type StateHash uint64

var (
	ErrIllegalPlacement      = errors.New("illegal placement")
	ErrNoPieces              = errors.New("no pieces left")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrEmptyDeck             = errors.New("development card deck is empty")
	ErrNoCard                = errors.New("no playable card")
)
