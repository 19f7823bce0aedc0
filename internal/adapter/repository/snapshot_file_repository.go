package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
)

// FileSnapshotRepository keeps snapshots as two JSON files under a directory.
// It is the fallback when no object storage or database is configured.
type FileSnapshotRepository struct {
	mu     sync.Mutex
	dir    string
	logger *zap.Logger
}

var _ repo.SnapshotRepository = (*FileSnapshotRepository)(nil)

// NewFileSnapshotRepository creates a repository rooted at dir
func NewFileSnapshotRepository(dir string, logger *zap.Logger) *FileSnapshotRepository {
	return &FileSnapshotRepository{dir: dir, logger: logger}
}

// Load reads both files; missing files mean empty state
func (r *FileSnapshotRepository) Load(ctx context.Context) (*entities.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.read(SessionsDocument)
	if err != nil {
		return nil, err
	}
	results, err := r.read(ResultsDocument)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(sessions, results)
}

// Save writes both files, replacing them atomically
func (r *FileSnapshotRepository) Save(ctx context.Context, snapshot *entities.Snapshot) error {
	sessions, results, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.write(SessionsDocument, sessions); err != nil {
		return err
	}
	if err := r.write(ResultsDocument, results); err != nil {
		return err
	}
	if r.logger != nil {
		r.logger.Debug("snapshot saved to disk", zap.String("dir", r.dir))
	}
	return nil
}

func (r *FileSnapshotRepository) path(doc string) string {
	return filepath.Join(r.dir, filepath.Base(doc))
}

func (r *FileSnapshotRepository) read(doc string) ([]byte, error) {
	b, err := os.ReadFile(r.path(doc))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", doc, err)
	}
	return b, nil
}

func (r *FileSnapshotRepository) write(doc string, body []byte) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(r.dir, filepath.Base(doc)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", doc, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", doc, err)
	}
	if err := os.Rename(tmp.Name(), r.path(doc)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", doc, err)
	}
	return nil
}
