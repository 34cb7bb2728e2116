package planner

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"settlers/experiments/metrics"
	"settlers/game"
	"settlers/tracker"
	"settlers/utils"
)

var ErrInconsistentState = errors.New("inconsistent tracker state")

type State int

const (
	Idle State = iota
	Generating
	Selecting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Selecting:
		return "selecting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Announcer receives the text of a committed plan.
type Announcer func(player int, text string)

func logAnnouncer(player int, text string) {
	log.Info().Msgf("player %d plans %s", player, text)
}

type Option func(dm *DecisionMaker)

func WithConfig(cfg Config) Option {
	return func(dm *DecisionMaker) {
		dm.cfg = cfg
	}
}

func WithStrategy(s Strategy) Option {
	return func(dm *DecisionMaker) {
		dm.cfg.Strategy = s
	}
}

func WithNBest(n int) Option {
	return func(dm *DecisionMaker) {
		dm.cfg.NBest = n
	}
}

func WithAnnouncer(a Announcer) Option {
	return func(dm *DecisionMaker) {
		dm.announce = a
	}
}

func WithMetrics(c metrics.Collector) Option {
	return func(dm *DecisionMaker) {
		dm.metrics = c
	}
}

// DecisionMaker turns one player's tracker view into a committed build plan.
// It is not safe for concurrent use; each seat owns one.
type DecisionMaker struct {
	player   int
	cfg      Config
	state    State
	memory   Memory
	plan     BuildPlan
	chosen   string
	announce Announcer
	lastTop  string
	metrics  metrics.Collector
	last     metrics.PlanMetric

	smart smartCycle
}

func NewDecisionMaker(player int, options ...Option) *DecisionMaker {
	dm := &DecisionMaker{
		player:   player,
		cfg:      DefaultConfig(),
		announce: logAnnouncer,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(dm)
	}
	if player < 0 {
		panic("player number must be non-negative")
	}
	if err := dm.cfg.Validate(); err != nil {
		panic(err.Error())
	}
	if dm.metrics == nil {
		dm.metrics = metrics.NewDummyCollector()
	}
	return dm
}

func (dm *DecisionMaker) Player() int {
	return dm.player
}

func (dm *DecisionMaker) Config() Config {
	return dm.cfg
}

func (dm *DecisionMaker) State() State {
	return dm.state
}

// Committed is the plan the turn execution consumes.
func (dm *DecisionMaker) Committed() *BuildPlan {
	return &dm.plan
}

// Memory lists the candidates generated in the last cycle.
func (dm *DecisionMaker) Memory() []ScoredPlan {
	return dm.memory.Plans()
}

func (dm *DecisionMaker) LastMetric() metrics.PlanMetric {
	return dm.last
}

// Plan runs one planning cycle and returns a copy of the committed plan.
// An empty plan means nothing is worth building.
func (dm *DecisionMaker) Plan(set *tracker.Set) BuildPlan {
	return dm.run(set, dm.cfg.Strategy, dm.cfg.NBest, true)
}

// PlanInMemory commits the best ranked candidate of the current memory
// without announcing. An empty memory is generated first.
func (dm *DecisionMaker) PlanInMemory(set *tracker.Set) BuildPlan {
	if dm.memory.Len() == 0 {
		return dm.run(set, NBest, 0, false)
	}
	dm.plan.Clear()
	dm.chosen = ""
	if err := dm.precheck(set); err != nil {
		log.Warn().Err(err).Msgf("player %d planning aborted", dm.player)
		return BuildPlan{}
	}
	roads := set.Game.Players[dm.player].PiecesLeft(game.Road)
	if p, ok := SelectNBest(dm.memory.Plans(), 0, roads, dm.cfg); ok {
		dm.commit(p)
	}
	return dm.plan.Clone()
}

func (dm *DecisionMaker) run(set *tracker.Set, strategy Strategy, n int, announce bool) BuildPlan {
	dm.metrics.Start(dm.player, strategy.String())
	dm.plan.Clear()
	dm.chosen = ""
	defer func() { dm.state = Idle }()

	if err := dm.precheck(set); err != nil {
		log.Warn().Err(err).Msgf("player %d planning aborted", dm.player)
		dm.memory.Forget()
		dm.last = dm.metrics.Complete("", 0)
		return BuildPlan{}
	}

	dm.state = Generating
	t := set.Tracker(dm.player)
	etas := t.BuildingETAs
	if strategy == Smart {
		set.UpdateWinGameETAs()
	}
	set.ResetScores()
	gen := NewGenerator(dm.cfg, set, dm.player, &dm.memory, dm.metrics)

	switch strategy {
	case Fast:
		plans := gen.Generate(etas)
		dm.state = Selecting
		if p, ok := SelectFast(plans, set.Game.VictoryPoints(dm.player), set.Game.Players[dm.player].PiecesLeft(game.Road), dm.cfg); ok {
			dm.commit(p)
		}
	case NBest:
		plans := gen.Generate(etas)
		dm.state = Selecting
		if p, ok := SelectNBest(plans, n, set.Game.Players[dm.player].PiecesLeft(game.Road), dm.cfg); ok {
			dm.commit(p)
		}
	case Smart:
		dm.state = Selecting
		dm.smartStrategy(set, etas)
		dm.roadBuilding(set)
	}

	candidates := dm.memory.Len()
	if strategy == Smart {
		candidates = dm.smart.candidates
	}
	log.Debug().Msgf("player %d %s cycle: %d candidates, build plan chosen type=%s %s",
		dm.player, strategy, candidates, dm.chosen, dm.plan.String())
	if announce {
		dm.announcePlan()
	}
	dm.last = dm.metrics.Complete(dm.chosen, dm.plan.Len())
	return dm.plan.Clone()
}

func (dm *DecisionMaker) precheck(set *tracker.Set) error {
	if set == nil || set.Game == nil {
		return fmt.Errorf("no tracker set: %w", ErrInconsistentState)
	}
	if dm.player >= len(set.Trackers) || dm.player >= len(set.Game.Players) {
		return fmt.Errorf("player %d not seated: %w", dm.player, ErrInconsistentState)
	}
	if n := set.Pending(); n > 0 {
		return fmt.Errorf("%d hypothetical placements pending: %w", n, ErrInconsistentState)
	}
	return nil
}

func (dm *DecisionMaker) commit(p ScoredPlan) {
	dm.plan = p.Plan.Clone()
	dm.chosen = p.Type.String()
}

func (dm *DecisionMaker) announcePlan() {
	if !dm.cfg.AnnouncePlans || dm.announce == nil {
		return
	}
	top := ""
	if p, ok := dm.plan.Peek(); ok {
		top = tracker.Describe(p)
	}
	if dm.cfg.SharePlanChanges && top == dm.lastTop {
		return
	}
	dm.lastTop = top
	dm.announce(dm.player, dm.plan.String())
}

// SelectFast is the greedy strategy: the quickest city or settlement, raced
// by the army and road plans once past FastRaceVP, with a card as the last
// resort.
func SelectFast(plans []ScoredPlan, vp, roadPieces int, cfg Config) (ScoredPlan, bool) {
	plans = checkPossiblePlans(plans, roadPieces)

	var city, settlement, army, road, card *ScoredPlan
	for i := range plans {
		p := &plans[i]
		switch p.Type {
		case CityPlan:
			if city == nil || p.Speedup > city.Speedup {
				city = p
			}
		case SettlementPlan:
			if settlement == nil || p.ETA < settlement.ETA || (p.ETA == settlement.ETA && p.Speedup > settlement.Speedup) {
				settlement = p
			}
		case LargestArmyPlan:
			army = p
		case LongestRoadPlan:
			road = p
		case CardPlan:
			card = p
		}
	}

	chosen := city
	if settlement != nil && (chosen == nil || settlement.ETA < chosen.ETA ||
		(settlement.ETA == chosen.ETA && settlement.Speedup > chosen.Speedup)) {
		chosen = settlement
	}
	if vp > cfg.FastRaceVP {
		if army != nil && (chosen == nil || army.ETA < chosen.ETA) {
			chosen = army
		}
		if road != nil && (chosen == nil || road.ETA < chosen.ETA) {
			chosen = road
		}
	}
	if chosen == nil && card != nil && vp <= cfg.FastRaceVP {
		chosen = card
	}
	if chosen == nil {
		return ScoredPlan{}, false
	}
	return *chosen, true
}

// SelectNBest ranks the candidates by composite score, lowest first, and
// picks the n-th, or the last when there are fewer.
func SelectNBest(plans []ScoredPlan, n, roadPieces int, cfg Config) (ScoredPlan, bool) {
	plans = checkPossiblePlans(plans, roadPieces)
	if len(plans) == 0 {
		return ScoredPlan{}, false
	}
	slices.SortStableFunc(plans, func(a, b ScoredPlan) int {
		return cmp.Compare(a.Composite(cfg), b.Composite(cfg))
	})
	return plans[utils.Clamp(n, 0, len(plans)-1)], true
}
