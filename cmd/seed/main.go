package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"unihub/internal/config"
	"unihub/internal/db"
	"unihub/internal/logger"
	"unihub/internal/repository"
	"unihub/internal/seed"
)

func main() {
	password := flag.String("password", "password123", "password given to every demo user")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		log.Fatal("refusing to seed demo data with APP_ENV=production")
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	data, err := seed.Demo()
	if err != nil {
		log.Fatal("failed to load demo data", zap.Error(err))
	}

	seeder := seed.New(
		repository.NewUserRepository(gormDB),
		repository.NewClubRepository(gormDB),
		repository.NewMembershipRepository(gormDB),
		repository.NewPostRepository(gormDB),
		repository.NewEventRepository(gormDB),
		log,
	)
	if _, err := seeder.Run(context.Background(), data, *password); err != nil {
		log.Fatal("failed to seed demo data", zap.Error(err))
	}
}
