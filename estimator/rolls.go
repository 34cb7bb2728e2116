package estimator

import (
	"errors"

	"settlers/game"
)

// ErrCutoffExceeded means the target cannot be afforded within the cutoff.
var ErrCutoffExceeded = errors.New("cutoff exceeded")

// Estimate is the result of Rolls: the number of rolls needed and the hand
// projected at that roll after trading surplus for the missing cards.
type Estimate struct {
	Rolls     int
	Resources game.Resources
}

// Rolls estimates how many rolls it takes to go from current to a hand
// covering target, given a production profile and port access. Each roll adds
// the expected yield; surplus cards may be traded at the best port ratio.
// The result only depends on the arguments.
func Rolls(current, target game.Resources, cutoff int, prod game.Production, ports game.PortFlags) (Estimate, error) {
	if cutoff < 0 {
		return Estimate{}, ErrCutoffExceeded
	}
	if _, ok := afford(project(current, prod, cutoff), target, ports); !ok {
		return Estimate{}, ErrCutoffExceeded
	}

	// Affordability never flips back as rolls accumulate, so bisect.
	lo, hi := 0, cutoff
	for lo < hi {
		mid := (lo + hi) / 2
		if _, ok := afford(project(current, prod, mid), target, ports); ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	hand, _ := afford(project(current, prod, lo), target, ports)
	return Estimate{Rolls: lo, Resources: hand}, nil
}

func project(current game.Resources, prod game.Production, rolls int) game.Resources {
	hand := current
	for r := 0; r < game.NumResources; r++ {
		hand[r] += rolls * prod[r] / 36
	}
	return hand
}

// afford trades surplus into deficits, cheapest ratio first, and reports
// whether the traded hand covers target.
func afford(hand, target game.Resources, ports game.PortFlags) (game.Resources, bool) {
	need, supply := 0, 0
	for r := 0; r < game.NumResources; r++ {
		if hand[r] < target[r] {
			need += target[r] - hand[r]
		} else {
			supply += (hand[r] - target[r]) / ports.Ratio(game.Resource(r))
		}
	}
	if supply < need {
		return hand, false
	}

	for r := 0; r < game.NumResources && need > 0; r++ {
		for hand[r] < target[r] {
			give := cheapestSurplus(hand, target, ports)
			hand[give] -= ports.Ratio(give)
			hand[r]++
			need--
		}
	}
	return hand, true
}

func cheapestSurplus(hand, target game.Resources, ports game.PortFlags) game.Resource {
	best := game.Resource(-1)
	for r := 0; r < game.NumResources; r++ {
		res := game.Resource(r)
		ratio := ports.Ratio(res)
		if hand[r]-target[r] < ratio {
			continue
		}
		if best < 0 || ratio < ports.Ratio(best) || (ratio == ports.Ratio(best) && hand[r]-target[r] > hand[best]-target[best]) {
			best = res
		}
	}
	return best
}

// BuildingETAs estimates the rolls to afford each piece type from hand.
// Anything past the cutoff is reported as sentinel.
func BuildingETAs(hand game.Resources, prod game.Production, ports game.PortFlags, cutoff, sentinel int) [game.NumPieceTypes]int {
	var etas [game.NumPieceTypes]int
	for t := game.PieceType(0); t < game.NumPieceTypes; t++ {
		est, err := Rolls(hand, t.Cost(), cutoff, prod, ports)
		if err != nil {
			etas[t] = sentinel
			continue
		}
		etas[t] = est.Rolls
	}
	return etas
}

// Speedup is the number of rolls extra production (and ports) saves when
// building one of each piece type from an empty hand.
func Speedup(prod, extra game.Production, ports, extraPorts game.PortFlags, cutoff int) int {
	var empty game.Resources
	before := BuildingETAs(empty, prod, ports, cutoff, cutoff)
	after := BuildingETAs(empty, prod.Add(extra), ports|extraPorts, cutoff, cutoff)
	total := 0
	for t := range before {
		total += before[t] - after[t]
	}
	return total
}
