package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"settlers/experiments"
	"settlers/planner"
)

func main() {
	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to read .env")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(os.Getenv("SETTLERS_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	settings := experiments.DefaultSettings()
	if games, err := strconv.Atoi(os.Getenv("SETTLERS_GAMES")); err == nil && games > 0 {
		settings.NumGames = games
	}
	if seed, err := strconv.ParseUint(os.Getenv("SETTLERS_SEED"), 10, 64); err == nil {
		settings.Seed = seed
	}
	if path := os.Getenv("SETTLERS_CONFIG"); path != "" {
		cfg, err := planner.LoadConfig(path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load planner config")
		}
		settings.Base = cfg
	}

	dir, err := experiments.RunStrategyMatchups(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	log.Info().Msgf("results written to %s", dir)
}
