package planner

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"settlers/game"
	"settlers/tracker"
)

type PlanType int

const (
	CityPlan PlanType = iota
	SettlementPlan
	CardPlan
	LargestArmyPlan
	LongestRoadPlan
)

func (t PlanType) String() string {
	switch t {
	case CityPlan:
		return "CITY"
	case SettlementPlan:
		return "SETTLEMENT"
	case CardPlan:
		return "CARD"
	case LargestArmyPlan:
		return "LARGEST_ARMY"
	case LongestRoadPlan:
		return "LONGEST_ROAD"
	}
	return fmt.Sprintf("PLAN(%d)", int(t))
}

// BuildPlan is a stack of pieces. The top is built first.
type BuildPlan struct {
	pieces []tracker.Piece
}

func NewBuildPlan(buildOrder ...tracker.Piece) BuildPlan {
	var b BuildPlan
	for i := len(buildOrder) - 1; i >= 0; i-- {
		b.Push(buildOrder[i])
	}
	return b
}

func (b *BuildPlan) Push(p tracker.Piece) {
	b.pieces = append(b.pieces, p)
}

func (b *BuildPlan) Pop() (tracker.Piece, bool) {
	if len(b.pieces) == 0 {
		return nil, false
	}
	p := b.pieces[len(b.pieces)-1]
	b.pieces = b.pieces[:len(b.pieces)-1]
	return p, true
}

func (b BuildPlan) Peek() (tracker.Piece, bool) {
	if len(b.pieces) == 0 {
		return nil, false
	}
	return b.pieces[len(b.pieces)-1], true
}

func (b BuildPlan) Len() int {
	return len(b.pieces)
}

func (b BuildPlan) IsEmpty() bool {
	return len(b.pieces) == 0
}

func (b *BuildPlan) Clear() {
	b.pieces = nil
}

// BuildOrder lists the pieces top first.
func (b BuildPlan) BuildOrder() []tracker.Piece {
	out := make([]tracker.Piece, 0, len(b.pieces))
	for i := len(b.pieces) - 1; i >= 0; i-- {
		out = append(out, b.pieces[i])
	}
	return out
}

func (b BuildPlan) Count(t game.PieceType) int {
	n := 0
	for _, p := range b.pieces {
		if p.Type() == t {
			n++
		}
	}
	return n
}

func (b BuildPlan) Clone() BuildPlan {
	return BuildPlan{pieces: slices.Clone(b.pieces)}
}

func (b BuildPlan) Describe() []string {
	out := make([]string, 0, len(b.pieces))
	for _, p := range b.BuildOrder() {
		out = append(out, tracker.Describe(p))
	}
	return out
}

func (b BuildPlan) String() string {
	if b.IsEmpty() {
		return "[]"
	}
	return "[" + strings.Join(b.Describe(), " ") + "]"
}

// ScoredPlan is one candidate in the declarative memory.
type ScoredPlan struct {
	Type            PlanType
	Plan            BuildPlan
	ETA             int
	Speedup         int
	DeltaWinGameETA int
}

// Composite is the N-best ranking key. Lower is better.
func (p ScoredPlan) Composite(cfg Config) float64 {
	score := float64(p.ETA)
	if cfg.RankBySpeedup {
		score -= cfg.SpeedupDiscount * float64(p.Speedup)
	}
	if cfg.RankByDeltaWinETA {
		score -= cfg.DeltaWinETADiscount * float64(p.DeltaWinGameETA)
	}
	return score
}

func (p ScoredPlan) String() string {
	return fmt.Sprintf("%s eta=%d speedup=%d delta=%d %s", p.Type, p.ETA, p.Speedup, p.DeltaWinGameETA, p.Plan.String())
}

// Memory holds the candidates of the current planning cycle.
type Memory struct {
	plans []ScoredPlan
}

func (m *Memory) Forget() {
	m.plans = nil
}

func (m *Memory) Remember(p ScoredPlan) {
	m.plans = append(m.plans, p)
}

func (m *Memory) Plans() []ScoredPlan {
	return slices.Clone(m.plans)
}

func (m *Memory) Len() int {
	return len(m.plans)
}

// checkPossiblePlans drops empty plans and plans needing more roads than
// the player has left.
func checkPossiblePlans(plans []ScoredPlan, roadPieces int) []ScoredPlan {
	out := make([]ScoredPlan, 0, len(plans))
	for _, p := range plans {
		if p.Plan.IsEmpty() || p.Plan.Count(game.Road) > roadPieces {
			continue
		}
		out = append(out, p)
	}
	return out
}
