package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/config"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/db"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/migrate"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "migrate").Logger()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	logger.Info().Msg("migrations applied")
}
