package main

import (
	"fmt"
	"log"

	"mental-health-agent-be/internal/config"
	"mental-health-agent-be/internal/model"
	"mental-health-agent-be/pkg/database"
)

func main() {
	// Same DSN resolution as the server, SQLite default included
	cfg := config.Load()

	log.Println("Running AutoMigrate...")
	if err := migrate(cfg.Database.Connection); err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Println("Success: Database migration completed via GORM.")
}

func migrate(dsn string) error {
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Postgres only: gen_random_uuid() for rows inserted outside the app
	if !database.IsSQLite(dsn) {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
		}
	}

	if err := db.AutoMigrate(model.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
