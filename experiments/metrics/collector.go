package metrics

import (
	"sync/atomic"
	"time"
)

// PlanMetric describes one planning cycle.
type PlanMetric struct {
	Player     int
	Strategy   string
	Candidates int
	Tries      int
	Duration   time.Duration
	PlanType   string
	PlanSize   int
}

type TurnMetric struct {
	Step int
	PlanMetric
}

type GameMetric struct {
	GameID         string
	StartingPlayer int
	Winner         int // player number, -1 without a winner
	WinnerStrategy string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalTurns     int
}

type Collector interface {
	Start(player int, strategy string)
	AddCandidate()
	AddTry()
	Complete(planType string, planSize int) PlanMetric
}

type collector struct {
	player     int
	strategy   string
	startTime  time.Time
	candidates atomic.Int32
	tries      atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(player int, strategy string) {
	m.startTime = time.Now()
	m.player = player
	m.strategy = strategy
	m.candidates.Store(0)
	m.tries.Store(0)
}

func (m *collector) AddCandidate() {
	m.candidates.Add(1)
}

func (m *collector) AddTry() {
	m.tries.Add(1)
}

func (m *collector) Complete(planType string, planSize int) PlanMetric {
	return PlanMetric{
		Player:     m.player,
		Strategy:   m.strategy,
		Candidates: int(m.candidates.Load()),
		Tries:      int(m.tries.Load()),
		Duration:   time.Since(m.startTime),
		PlanType:   planType,
		PlanSize:   planSize,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(player int, strategy string)               {}
func (m *dummyCollector) AddCandidate()                                   {}
func (m *dummyCollector) AddTry()                                         {}
func (m *dummyCollector) Complete(planType string, planSize int) PlanMetric { return PlanMetric{} }
