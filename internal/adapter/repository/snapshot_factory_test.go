package repository

import (
	"path/filepath"
	"testing"

	"github.com/rondagdag/audience-survey/pkg/config"
)

func TestOpenSnapshotRepository(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		backend string
		objects JSONObjectStore
		wantErr bool
	}{
		{"none", config.PersistenceNone, nil, false},
		{"file", config.PersistenceFile, nil, false},
		{"minio", config.PersistenceMinIO, &memObjectStore{}, false},
		{"minio without storage", config.PersistenceMinIO, nil, true},
		{"sqlite", config.PersistenceSQLite, nil, false},
		{"unknown", "tape", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Persistence: config.PersistenceConfig{
				Backend:    tt.backend,
				DataDir:    filepath.Join(dir, tt.name),
				SQLitePath: filepath.Join(dir, tt.name, "survey.db"),
			}}

			r, closeFn, err := OpenSnapshotRepository(cfg, tt.objects, nil)
			if closeFn == nil {
				t.Fatal("close func must never be nil")
			}
			defer closeFn()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			roundTrip(t, r)
		})
	}
}
