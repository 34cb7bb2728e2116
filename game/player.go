package game

// Player is one seat's private and public holdings.
type Player struct {
	Number        int
	Resources     Resources
	Pieces        [NumBoardPieces]int // remaining, by PieceType
	DevCards      DevCards
	Knights       int  // played knights
	PlayedDevCard bool // a dev card was played this turn
	RoadLength    int
	RoadPaths     []RoadPath
}

func NewPlayer(number int) *Player {
	return &Player{
		Number: number,
		Pieces: StartingPieces,
	}
}

func (p *Player) Copy() *Player {
	c := *p
	if p.RoadPaths != nil {
		c.RoadPaths = make([]RoadPath, len(p.RoadPaths))
		for i, path := range p.RoadPaths {
			c.RoadPaths[i] = path.Copy()
		}
	}
	return &c
}

func (p *Player) PiecesLeft(t PieceType) int {
	if t < 0 || t >= NumBoardPieces {
		return 0
	}
	return p.Pieces[t]
}

// HiddenVP counts victory point cards in hand.
func (p *Player) HiddenVP() int {
	return p.DevCards.Count(VictoryPointCard)
}
