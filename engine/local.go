package engine

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"settlers/estimator"
	"settlers/experiments/metrics"
	"settlers/game"
	"settlers/gamemaster"
	"settlers/meta"
	"settlers/planner"
	"settlers/tracker"
)

// PlanListener sees every plan a seat commits to.
type PlanListener func(turn, player int, chosen metrics.PlanMetric, plan planner.BuildPlan)

type Option func(e *Local)

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		e.maxTurns = turns
	}
}

func WithPlanListener(l PlanListener) Option {
	return func(e *Local) {
		e.listener = l
	}
}

func WithEstimator(est *estimator.Estimator) Option {
	return func(e *Local) {
		e.est = est
	}
}

// Local plays every seat with its own decision maker in one process.
type Local struct {
	Game     *game.Game
	Master   *gamemaster.Master
	Planners []*planner.DecisionMaker

	est      *estimator.Estimator
	maxTurns int
	listener PlanListener
}

func LocalEngine(g *game.Game, planners []*planner.DecisionMaker, rng *rand.Rand, options ...Option) *Local {
	if len(planners) != g.Seats() {
		panic("number of planners does not match number of seats")
	}
	if len(planners) < 2 {
		panic("need at least two players")
	}
	for i, dm := range planners {
		if dm.Player() != i {
			panic("planners must be ordered by seat")
		}
	}

	e := &Local{
		Game:     g,
		Master:   gamemaster.NewMaster(g, rng),
		Planners: planners,
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	if e.maxTurns <= 0 {
		panic("max turns must be positive")
	}
	if e.est == nil {
		e.est = estimator.NewEstimator(estimator.WithCacheSize(meta.CACHE_SIZE))
	}
	return e
}

// Run executes the entire game loop until a winner is found.
func (e *Local) Run() (int, metrics.GameMetric, []metrics.TurnMetric) {
	g := e.Game
	gameMetric := metrics.GameMetric{
		GameID:         g.ID.String(),
		StartingPlayer: 0,
		StartTime:      time.Now(),
	}

	if g.Phase == game.SetupPhase {
		if err := e.Master.Setup(); err != nil {
			panic(err)
		}
	}
	log.Info().Msgf("game %s: player %d is starting", gameMetric.GameID, g.Current)

	var turnMetrics []metrics.TurnMetric
	turns := 0
	for g.Winner() == game.None && turns < e.maxTurns*g.Seats() {
		turnMetrics = append(turnMetrics, e.turn(turns+1)...)
		e.Master.EndTurn()
		turns++
	}

	winner := g.Winner()
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalTurns = turns
	if winner != game.None {
		gameMetric.WinnerStrategy = e.Planners[winner].Config().Strategy.String()
		log.Info().Msgf("game %s ended with winner %d after %d turns", gameMetric.GameID, winner, turns)
	} else {
		log.Info().Msgf("game %s stopped after %d turns without a winner", gameMetric.GameID, turns)
	}
	return winner, gameMetric, turnMetrics
}

// turn rolls for the current seat, then alternates planning and building
// until nothing more can be built this turn.
func (e *Local) turn(step int) []metrics.TurnMetric {
	g := e.Game
	player := g.Current
	dm := e.Planners[player]
	pl := g.Players[player]

	if pl.DevCards.Playable(game.Knight) && !pl.PlayedDevCard {
		if err := e.Master.PlayKnight(player); err != nil {
			log.Warn().Err(err).Msgf("player %d could not play a knight", player)
		}
	}
	e.Master.Roll()

	var out []metrics.TurnMetric
	for i := 0; i < meta.MAX_BUILDS_PER_TURN && g.Winner() == game.None; i++ {
		set := tracker.NewSet(g.Copy(), e.est, dm.Config().TrackerOptions()...)
		plan := dm.Plan(set)
		out = append(out, metrics.TurnMetric{Step: step, PlanMetric: dm.LastMetric()})
		if e.listener != nil {
			e.listener(step, player, dm.LastMetric(), plan)
		}
		if plan.IsEmpty() {
			break
		}
		e.playHelpers(player, &plan)

		built, err := e.Master.Execute(player, &plan)
		if errors.Is(err, gamemaster.ErrStalePlan) {
			log.Debug().Err(err).Msgf("player %d replans", player)
			continue
		}
		if err != nil {
			log.Warn().Err(err).Msgf("player %d could not build", player)
			break
		}
		if !built {
			break
		}
	}
	return out
}

// playHelpers plays a card that moves the plan forward, at most one per turn.
func (e *Local) playHelpers(player int, plan *planner.BuildPlan) {
	pl := e.Game.Players[player]
	if pl.PlayedDevCard {
		return
	}
	top, ok := plan.Peek()
	if !ok {
		return
	}
	switch {
	case top.Type() == game.Road && pl.DevCards.Playable(game.RoadBuilding):
		if _, err := e.Master.PlayRoadBuilding(player, plan); err != nil {
			log.Debug().Err(err).Msgf("player %d road building", player)
		}
	case pl.DevCards.Playable(game.YearOfPlenty) && !pl.Resources.Contains(top.Type().Cost()):
		if err := e.Master.PlayYearOfPlenty(player, top.Type().Cost()); err != nil {
			log.Debug().Err(err).Msgf("player %d year of plenty", player)
		}
	case pl.DevCards.Playable(game.Monopoly) && !pl.Resources.Contains(top.Type().Cost()):
		if _, _, err := e.Master.PlayMonopoly(player, top.Type().Cost()); err != nil {
			log.Debug().Err(err).Msgf("player %d monopoly", player)
		}
	}
}
