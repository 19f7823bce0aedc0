package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
)

// currentSnapshotID is the single row the store state is written to
const currentSnapshotID = "current"

// snapshotRow maps the survey_snapshots table
type snapshotRow struct {
	ID           string         `gorm:"column:id;primaryKey"`
	Sessions     datatypes.JSON `gorm:"column:sessions"`
	Results      datatypes.JSON `gorm:"column:results"`
	SessionCount int            `gorm:"column:session_count"`
	RecordCount  int            `gorm:"column:record_count"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (snapshotRow) TableName() string { return "survey_snapshots" }

// GormSnapshotRepository stores snapshots in PostgreSQL or SQLite
type GormSnapshotRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ repo.SnapshotRepository = (*GormSnapshotRepository)(nil)

// NewGormSnapshotRepository creates a new snapshot repository backed by GORM
func NewGormSnapshotRepository(db *gorm.DB, logger *zap.Logger) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db, logger: logger}
}

// Load returns the stored snapshot, or an empty one
func (r *GormSnapshotRepository) Load(ctx context.Context) (*entities.Snapshot, error) {
	var row snapshotRow
	if err := r.db.WithContext(ctx).Where("id = ?", currentSnapshotID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap, err := decodeSnapshot(row.Sessions, row.Results)
	if err != nil {
		return nil, err
	}
	if r.logger != nil {
		r.logger.Info("snapshot loaded from database",
			zap.Int("sessions", len(snap.Sessions)),
			zap.Int("records", snap.RecordCount()),
		)
	}
	return snap, nil
}

// Save upserts the snapshot row
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *entities.Snapshot) error {
	if snapshot == nil {
		snapshot = entities.NewSnapshot()
	}
	sessions, results, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	row := snapshotRow{
		ID:           currentSnapshotID,
		Sessions:     datatypes.JSON(sessions),
		Results:      datatypes.JSON(results),
		SessionCount: len(snapshot.Sessions),
		RecordCount:  snapshot.RecordCount(),
		UpdatedAt:    time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"sessions", "results", "session_count", "record_count", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
