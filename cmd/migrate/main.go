package main

import (
	"log"
	"os"

	"github.com/rondagdag/audience-survey/internal/infrastructure/database"
	"github.com/rondagdag/audience-survey/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch cfg.Persistence.Backend {
	case config.PersistencePostgres:
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		log.Println("🔄 Applying postgres migrations...")
		n, err := database.Migrate(db, database.DialectPostgres)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Printf("✅ Successfully applied %d migration(s)!", n)

	case config.PersistenceSQLite:
		db, err := database.NewSQLiteDB(cfg, cfg.Persistence.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.CloseDB(db)

		log.Println("🔄 Applying sqlite migrations...")
		n, err := database.Migrate(db, database.DialectSQLite)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Printf("✅ Successfully applied %d migration(s)!", n)

	default:
		log.Printf("⚠️  PERSISTENCE_BACKEND=%q has no schema; nothing to migrate", cfg.Persistence.Backend)
		os.Exit(0)
	}
}
