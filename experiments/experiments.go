package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"settlers/engine"
	"settlers/estimator"
	"settlers/experiments/metrics"
	"settlers/game"
	"settlers/meta"
	"settlers/planner"
	"settlers/utils"
)

// Settings are the runner knobs shared by every experiment.
type Settings struct {
	Root     string // output root, experiments/<name>/<timestamp> is created under it
	NumGames int    // per matchup
	Seed     uint64
	MaxTurns int
	Base     planner.Config
}

func DefaultSettings() Settings {
	return Settings{
		Root:     ".",
		NumGames: meta.NUM_GAMES,
		Seed:     1,
		MaxTurns: meta.MAX_TURNS,
		Base:     planner.DefaultConfig(),
	}
}

var strategyConfigs = []metrics.AgentConfig{
	{ID: 1, Strategy: planner.Fast.String()},
	{ID: 2, Strategy: planner.NBest.String(), NBest: 0},
	{ID: 3, Strategy: planner.NBest.String(), NBest: 1},
	{ID: 4, Strategy: planner.Smart.String()},
}

// RunStrategyMatchups pits every strategy against the greedy baseline,
// alternating who sits first.
func RunStrategyMatchups(s Settings) (string, error) {
	baseline := strategyConfigs[0]
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range strategyConfigs[1:] {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline})
	}
	return runExperiment("strategy_matchups", s, strategyConfigs, matchUps)
}

// RunRankingExperiment compares the N-best ranking keys against plain ETA.
func RunRankingExperiment(s Settings) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Strategy: planner.NBest.String()}
	rankingConfigs := []metrics.AgentConfig{
		{ID: 1, Strategy: planner.NBest.String(), RankBySpeedup: true},
		{ID: 2, Strategy: planner.NBest.String(), RankByDeltaWinETA: true},
		{ID: 3, Strategy: planner.NBest.String(), RankBySpeedup: true, RankByDeltaWinETA: true},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range rankingConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return runExperiment("ranking", s, append(rankingConfigs, baseline), matchUps)
}

func runExperiment(name string, s Settings, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (string, error) {
	writer, err := metrics.NewWriter(s.Root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close plan log")
		}
	}()

	// Seats of one matchup share the estimate cache.
	est := estimator.NewEstimator(estimator.WithCacheSize(meta.CACHE_SIZE))
	rng := rand.New(rand.NewSource(s.Seed))

	count := 0
	gameRecords := []metrics.GameRecord{}
	planRecords := []metrics.PlanRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchup[0], matchup[1])

		for i := 0; i < s.NumGames; i++ {
			count++
			winner, gameMetric, turnMetrics, err := runGame(count, s, matchup, est, rng, writer)
			if err != nil {
				return "", err
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     matchup[0].ID,
				Agent2:     matchup[1].ID,
				GameMetric: gameMetric,
			})
			for _, tm := range turnMetrics {
				planRecords = append(planRecords, metrics.PlanRecord{
					Game:       count,
					TurnMetric: tm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %d", mi+1, len(matchUps), i+1, winner)
		}
	}

	hits, misses := est.Stats()
	log.Info().Msgf("completed %s experiment, estimate cache hits=%d misses=%d", name, hits, misses)
	log.Info().Msgf("wins by strategy: %+v", StrategyWins(gameRecords))

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WritePlanRecords(planRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored plan records")

	return writer.Dir(), nil
}

// runGame plays one game with the two agents in the first two seats.
func runGame(id int, s Settings, matchup []metrics.AgentConfig, est *estimator.Estimator, rng *rand.Rand, writer *metrics.Writer) (int, metrics.GameMetric, []metrics.TurnMetric, error) {
	dms := make([]*planner.DecisionMaker, len(matchup))
	for seat, config := range matchup {
		cfg, err := agentConfig(s.Base, config)
		if err != nil {
			return game.None, metrics.GameMetric{}, nil, err
		}
		dms[seat] = planner.NewDecisionMaker(seat,
			planner.WithConfig(cfg),
			planner.WithMetrics(metrics.NewCollector()))
	}

	g := game.NewGame(game.NewStandardBoard(rng), len(dms))
	var logErr error
	e := engine.LocalEngine(g, dms, rng,
		engine.WithMaxTurns(s.MaxTurns),
		engine.WithEstimator(est),
		engine.WithPlanListener(func(turn, player int, m metrics.PlanMetric, plan planner.BuildPlan) {
			if plan.IsEmpty() || logErr != nil {
				return
			}
			logErr = writer.LogPlan(metrics.PlanLogEntry{
				Game:   id,
				Turn:   turn,
				Player: player,
				Type:   m.PlanType,
				Pieces: plan.Describe(),
			})
		}))

	winner, gameMetric, turnMetrics := e.Run()
	if logErr != nil {
		return winner, gameMetric, turnMetrics, fmt.Errorf("failed to log plans: %w", logErr)
	}
	return winner, gameMetric, turnMetrics, nil
}

func agentConfig(base planner.Config, config metrics.AgentConfig) (planner.Config, error) {
	strategy, err := planner.ParseStrategy(config.Strategy)
	if err != nil {
		return planner.Config{}, err
	}
	cfg := base
	cfg.Strategy = strategy
	cfg.NBest = config.NBest
	cfg.RankBySpeedup = config.RankBySpeedup
	cfg.RankByDeltaWinETA = config.RankByDeltaWinETA
	return cfg, nil
}

// Wins is the number of games a strategy won.
type Wins struct {
	Strategy string
	Games    int
}

// StrategyWins tallies the winners, in order of first win.
func StrategyWins(records []metrics.GameRecord) []Wins {
	names := []string{}
	out := []Wins{}
	for _, r := range records {
		if r.WinnerStrategy == "" {
			continue
		}
		i := utils.FindIndex(names, r.WinnerStrategy)
		if i < 0 {
			names = append(names, r.WinnerStrategy)
			out = append(out, Wins{Strategy: r.WinnerStrategy})
			i = len(out) - 1
		}
		out[i].Games++
	}
	return out
}
