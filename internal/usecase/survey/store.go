package survey

import (
	"context"
	"sort"
	"sync"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
	"github.com/rondagdag/audience-survey/internal/usecase/keywords"
)

// Store is the in-memory aggregation store. It owns every session and the
// records submitted to each, and guarantees at most one active session.
// All methods are safe for concurrent use; returned values are copies.
type Store struct {
	mu        sync.RWMutex
	persistMu sync.Mutex // orders Persist calls
	sessions  map[string]*entities.Session
	records   map[string][]*entities.SurveyRecord
	extractor *keywords.Extractor
}

// NewStore creates an empty store. A nil extractor uses the stock keyword settings.
func NewStore(extractor *keywords.Extractor) *Store {
	if extractor == nil {
		extractor = keywords.Default()
	}
	return &Store{
		sessions:  map[string]*entities.Session{},
		records:   map[string][]*entities.SurveyRecord{},
		extractor: extractor,
	}
}

// CreateSession closes any active session and starts a new active one
func (s *Store) CreateSession(name string) *entities.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeActiveLocked("")
	session := entities.NewSession(name)
	s.sessions[session.ID] = session
	return session.Clone()
}

// CloseSession marks a session inactive. Closing an already closed session
// refreshes its close time.
func (s *Store) CloseSession(id string) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	session.Close()
	return session.Clone(), nil
}

// ReactivateSession makes id the only active session
func (s *Store) ReactivateSession(id string) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	s.closeActiveLocked(id)
	session.Reactivate()
	return session.Clone(), nil
}

// DeleteSession removes a session and its records, reporting whether it existed
func (s *Store) DeleteSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	delete(s.records, id)
	return true
}

// AddRecord appends a record to its session's list. The session is not
// required to exist and records are not deduplicated.
func (s *Store) AddRecord(r *entities.SurveyRecord) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[r.SessionID] = append(s.records[r.SessionID], r.Clone())
}

// GetSession returns a session by id
func (s *Store) GetSession(id string) (*entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// ListSessions returns all sessions, newest first
func (s *Store) ListSessions() []*entities.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ActiveSession returns the active session, if any
func (s *Store) ActiveSession() (*entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.IsActive {
			return session.Clone(), true
		}
	}
	return nil, false
}

// Records returns a session's records in submission order
func (s *Store) Records(sessionID string) []*entities.SurveyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneRecords(s.records[sessionID])
}

// Summary aggregates a session's records
func (s *Store) Summary(sessionID string) (*entities.SessionSummary, error) {
	s.mu.RLock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.mu.RUnlock()
		return nil, entities.ErrSessionNotFound
	}
	records := cloneRecords(s.records[sessionID])
	s.mu.RUnlock()

	return Summarize(sessionID, records, s.extractor), nil
}

// ExportCSV renders a session's records as CSV
func (s *Store) ExportCSV(sessionID string) (string, error) {
	s.mu.RLock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.mu.RUnlock()
		return "", entities.ErrSessionNotFound
	}
	records := cloneRecords(s.records[sessionID])
	s.mu.RUnlock()

	return RenderCSV(records), nil
}

// Snapshot returns a deep copy of the store's state for persistence.
// Records whose session no longer exists are left out.
func (s *Store) Snapshot() *entities.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := entities.NewSnapshot()
	for id, session := range s.sessions {
		snap.Sessions[id] = session.Clone()
	}
	for id, records := range s.records {
		if _, ok := s.sessions[id]; !ok {
			continue
		}
		snap.Results[id] = cloneRecords(records)
	}
	return snap
}

// Persist takes a snapshot and saves it to snapshots. Calls are serialized
// so a later snapshot is never overwritten by an earlier one.
func (s *Store) Persist(ctx context.Context, snapshots repo.SnapshotRepository) error {
	if snapshots == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	return snapshots.Save(ctx, s.Snapshot())
}

// Restore replaces the store's state with snap. If the snapshot holds more
// than one active session only the newest stays active. Results for unknown
// sessions are dropped.
func (s *Store) Restore(snap *entities.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = map[string]*entities.Session{}
	s.records = map[string][]*entities.SurveyRecord{}
	if snap == nil {
		return
	}

	var newest *entities.Session
	for id, session := range snap.Sessions {
		if session == nil {
			continue
		}
		c := session.Clone()
		c.ID = id
		s.sessions[id] = c
		if c.IsActive && (newest == nil || c.CreatedAt.After(newest.CreatedAt)) {
			newest = c
		}
	}
	if newest != nil {
		s.closeActiveLocked(newest.ID)
	}
	for id, records := range snap.Results {
		if _, ok := s.sessions[id]; !ok {
			continue
		}
		s.records[id] = cloneRecords(records)
	}
}

// Reset drops every session and record
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = map[string]*entities.Session{}
	s.records = map[string][]*entities.SurveyRecord{}
}

// closeActiveLocked closes every active session except keep. Callers hold mu.
func (s *Store) closeActiveLocked(keep string) {
	for id, session := range s.sessions {
		if id != keep && session.IsActive {
			session.Close()
		}
	}
}

func cloneRecords(in []*entities.SurveyRecord) []*entities.SurveyRecord {
	out := make([]*entities.SurveyRecord, 0, len(in))
	for _, r := range in {
		if r != nil {
			out = append(out, r.Clone())
		}
	}
	return out
}
