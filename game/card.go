package game

type DevCardType int

const (
	Knight DevCardType = iota
	RoadBuilding
	Monopoly
	YearOfPlenty
	VictoryPointCard
)

const NumDevCardTypes = 5

// DeckComposition is the number of cards of each type in a fresh deck.
var DeckComposition = [NumDevCardTypes]int{
	Knight:           14,
	RoadBuilding:     2,
	Monopoly:         2,
	YearOfPlenty:     2,
	VictoryPointCard: 5,
}

func DeckTotal() int {
	total := 0
	for _, n := range DeckComposition {
		total += n
	}
	return total
}

var devCardNames = [...]string{"knight", "road building", "monopoly", "year of plenty", "victory point"}

func (t DevCardType) String() string {
	return devCardNames[t]
}

// DevCards is a hand of development cards. Cards bought this turn are new
// and cannot be played until the next turn. VP cards count as soon as held.
type DevCards struct {
	New [NumDevCardTypes]int
	Old [NumDevCardTypes]int
}

func (d *DevCards) Add(t DevCardType, isNew bool) {
	if isNew {
		d.New[t]++
	} else {
		d.Old[t]++
	}
}

// Remove takes one card of the given type, old cards first.
func (d *DevCards) Remove(t DevCardType) bool {
	switch {
	case d.Old[t] > 0:
		d.Old[t]--
	case d.New[t] > 0:
		d.New[t]--
	default:
		return false
	}
	return true
}

func (d DevCards) Count(t DevCardType) int {
	return d.New[t] + d.Old[t]
}

func (d DevCards) Playable(t DevCardType) bool {
	return d.Old[t] > 0
}

// Age turns every new card into an old one at the end of a turn.
func (d *DevCards) Age() {
	for t := range d.New {
		d.Old[t] += d.New[t]
		d.New[t] = 0
	}
}
