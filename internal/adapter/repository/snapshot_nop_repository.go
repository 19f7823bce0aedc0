package repository

import (
	"context"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
)

// NopSnapshotRepository discards snapshots; state lives only in memory
type NopSnapshotRepository struct{}

var _ repo.SnapshotRepository = NopSnapshotRepository{}

func (NopSnapshotRepository) Load(context.Context) (*entities.Snapshot, error) {
	return entities.NewSnapshot(), nil
}

func (NopSnapshotRepository) Save(context.Context, *entities.Snapshot) error { return nil }
