package repositories

import (
	"context"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// SnapshotRepository persists the aggregation store between restarts
type SnapshotRepository interface {
	// Load returns the last saved snapshot, or an empty one if nothing was saved
	Load(ctx context.Context) (*entities.Snapshot, error)

	// Save replaces the stored snapshot
	Save(ctx context.Context, snapshot *entities.Snapshot) error
}
