package repository

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
	"github.com/rondagdag/audience-survey/internal/infrastructure/database"
	"github.com/rondagdag/audience-survey/pkg/config"
)

// OpenSnapshotRepository builds the repository selected by PERSISTENCE_BACKEND.
// objects is required for the minio backend. The returned close func releases
// any database connection and is never nil.
func OpenSnapshotRepository(cfg *config.Config, objects JSONObjectStore, logger *zap.Logger) (repo.SnapshotRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Persistence.Backend {
	case config.PersistenceNone:
		return NopSnapshotRepository{}, noop, nil

	case config.PersistenceFile:
		return NewFileSnapshotRepository(cfg.Persistence.DataDir, logger), noop, nil

	case config.PersistenceMinIO:
		if objects == nil {
			return nil, noop, fmt.Errorf("minio persistence requires object storage")
		}
		return NewMinIOSnapshotRepository(objects, logger), noop, nil

	case config.PersistencePostgres:
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return nil, noop, err
		}
		if cfg.Database.AutoMigrate {
			if _, err := database.Migrate(db, database.DialectPostgres); err != nil {
				database.CloseDB(db)
				return nil, noop, err
			}
		}
		return NewGormSnapshotRepository(db, logger), closer(db), nil

	case config.PersistenceSQLite:
		db, err := database.NewSQLiteDB(cfg, cfg.Persistence.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		// local files always carry their own schema
		if _, err := database.Migrate(db, database.DialectSQLite); err != nil {
			database.CloseDB(db)
			return nil, noop, err
		}
		return NewGormSnapshotRepository(db, logger), closer(db), nil
	}

	return nil, noop, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
}

func closer(db *gorm.DB) func() error {
	return func() error { return database.CloseDB(db) }
}
