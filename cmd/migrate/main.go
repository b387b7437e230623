package main

import (
	"log"

	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	l := logger.Get()
	defer l.Sync()

	db, err := database.NewSQLXSQLiteDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.DB.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}
