// Command initdb applies the database migrations and exits.
package main

import (
	"context"

	"hr_evaluation_reminder/internal/infra/config"
	idb "hr_evaluation_reminder/internal/infra/database"
	"hr_evaluation_reminder/internal/infra/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Component("initdb")

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := idb.NewPostgresConnection(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()

	if err := idb.RunMigrations(db, log); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Info("Database schema is up to date")
}
