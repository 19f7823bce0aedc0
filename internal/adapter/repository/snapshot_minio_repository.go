package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
	"github.com/rondagdag/audience-survey/internal/infrastructure/storage"
)

// JSONObjectStore reads and writes whole JSON documents
type JSONObjectStore interface {
	PutJSON(ctx context.Context, objectName string, body []byte) error
	GetJSON(ctx context.Context, objectName string) ([]byte, error)
}

var _ JSONObjectStore = (*storage.MinIOClient)(nil)

// MinIOSnapshotRepository keeps snapshots as two JSON objects in the upload bucket
type MinIOSnapshotRepository struct {
	store  JSONObjectStore
	logger *zap.Logger
}

var _ repo.SnapshotRepository = (*MinIOSnapshotRepository)(nil)

// NewMinIOSnapshotRepository creates a snapshot repository backed by object storage
func NewMinIOSnapshotRepository(store JSONObjectStore, logger *zap.Logger) *MinIOSnapshotRepository {
	return &MinIOSnapshotRepository{store: store, logger: logger}
}

// Load fetches both documents; a missing document means empty state
func (r *MinIOSnapshotRepository) Load(ctx context.Context) (*entities.Snapshot, error) {
	sessions, err := r.get(ctx, SessionsDocument)
	if err != nil {
		return nil, err
	}
	results, err := r.get(ctx, ResultsDocument)
	if err != nil {
		return nil, err
	}

	snap, err := decodeSnapshot(sessions, results)
	if err != nil {
		return nil, err
	}
	if r.logger != nil {
		r.logger.Info("snapshot loaded from object storage",
			zap.Int("sessions", len(snap.Sessions)),
			zap.Int("records", snap.RecordCount()),
		)
	}
	return snap, nil
}

// Save uploads both documents
func (r *MinIOSnapshotRepository) Save(ctx context.Context, snapshot *entities.Snapshot) error {
	sessions, results, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := r.store.PutJSON(ctx, SessionsDocument, sessions); err != nil {
		return err
	}
	return r.store.PutJSON(ctx, ResultsDocument, results)
}

func (r *MinIOSnapshotRepository) get(ctx context.Context, name string) ([]byte, error) {
	b, err := r.store.GetJSON(ctx, name)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil
	}
	return b, err
}
