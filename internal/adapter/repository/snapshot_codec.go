package repository

import (
	"encoding/json"
	"fmt"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// Snapshot documents keep the layout of the legacy JSON files: sessions keyed
// by id, and records grouped by session id.
const (
	SessionsDocument = "data/sessions.json"
	ResultsDocument  = "data/survey-results.json"
)

func encodeSnapshot(s *entities.Snapshot) (sessions, results []byte, err error) {
	if s == nil {
		s = entities.NewSnapshot()
	}
	sessions, err = json.MarshalIndent(s.Sessions, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode sessions: %w", err)
	}
	results, err = json.MarshalIndent(s.Results, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode results: %w", err)
	}
	return sessions, results, nil
}

// decodeSnapshot parses both documents; an empty document is treated as empty state
func decodeSnapshot(sessions, results []byte) (*entities.Snapshot, error) {
	snap := entities.NewSnapshot()
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &snap.Sessions); err != nil {
			return nil, fmt.Errorf("failed to decode sessions: %w", err)
		}
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &snap.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results: %w", err)
		}
	}
	// JSON null leaves the maps nil
	if snap.Sessions == nil {
		snap.Sessions = map[string]*entities.Session{}
	}
	if snap.Results == nil {
		snap.Results = map[string][]*entities.SurveyRecord{}
	}
	return snap, nil
}
