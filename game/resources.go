package game

import (
	"fmt"
	"strings"
)

type Resource int

const (
	Clay Resource = iota
	Ore
	Sheep
	Wheat
	Wood
	Unknown
)

// NumResources counts the known resource types.
const NumResources = 5

var resourceNames = [...]string{"clay", "ore", "sheep", "wheat", "wood", "unknown"}

func (r Resource) String() string {
	if r < 0 || int(r) >= len(resourceNames) {
		return fmt.Sprintf("resource(%d)", int(r))
	}
	return resourceNames[r]
}

// Resources is a bundle indexed by Resource, the last slot holding unknown cards.
type Resources [NumResources + 1]int

var (
	RoadCost       = Resources{Clay: 1, Wood: 1}
	SettlementCost = Resources{Clay: 1, Sheep: 1, Wheat: 1, Wood: 1}
	CityCost       = Resources{Ore: 3, Wheat: 2}
	CardCost       = Resources{Ore: 1, Sheep: 1, Wheat: 1}
)

func (r Resources) Add(o Resources) Resources {
	for i := range r {
		r[i] += o[i]
	}
	return r
}

// Subtract does not clamp, a negative amount is a debt.
func (r Resources) Subtract(o Resources) Resources {
	for i := range r {
		r[i] -= o[i]
	}
	return r
}

func (r Resources) Times(n int) Resources {
	for i := range r {
		r[i] *= n
	}
	return r
}

// Contains reports whether r covers o in every known resource.
func (r Resources) Contains(o Resources) bool {
	for i := 0; i < NumResources; i++ {
		if r[i] < o[i] {
			return false
		}
	}
	return true
}

func (r Resources) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

func (r Resources) String() string {
	parts := make([]string, 0, len(r))
	for i, n := range r {
		if n != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", Resource(i), n))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Production is the expected yield of one roll per resource, in 36ths.
type Production [NumResources]int

func (p Production) Add(o Production) Production {
	for i := range p {
		p[i] += o[i]
	}
	return p
}

// PortFlags marks the trade ports a player has access to, one bit per
// resource for 2:1 ports and MiscPort for the 3:1 port.
type PortFlags uint8

const MiscPort PortFlags = 1 << NumResources

func ResourcePort(r Resource) PortFlags {
	return 1 << uint(r)
}

func (p PortFlags) Has(r Resource) bool {
	return p&ResourcePort(r) != 0
}

func (p PortFlags) HasMisc() bool {
	return p&MiscPort != 0
}

// Ratio is how many of r the bank asks for one card of any other type.
func (p PortFlags) Ratio(r Resource) int {
	switch {
	case p.Has(r):
		return 2
	case p.HasMisc():
		return 3
	default:
		return 4
	}
}
