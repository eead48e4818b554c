// Command seed fills an empty database with demo accounts and courts.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/database"
	"github.com/iliyamo/court-booking/internal/observability"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/seed"
)

func main() {
	players := flag.Int("players", 20, "number of random player accounts")
	fakerSeed := flag.Int64("faker-seed", 0, "seed for generated data (0 = random)")
	flag.Parse()

	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	s := seed.New(
		repository.NewUserRepo(db),
		repository.NewCourtRepo(db),
		repository.NewAvailabilityRepo(db),
		seed.Options{Players: *players, BcryptCost: cfg.BcryptCost, FakerSeed: *fakerSeed},
		logger,
	)
	res, err := s.Run(ctx)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	if !res.Skipped {
		logger.Info("demo accounts share one password",
			slog.String("owner", seed.DemoOwnerEmail),
			slog.String("player", seed.DemoPlayerEmail),
			slog.String("password", seed.DemoPassword))
	}
}
