package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
	"github.com/rondagdag/audience-survey/internal/usecase/survey"
)

// Service defines the session administration use case
type Service interface {
	// Create starts a new active session, closing the previous one
	Create(ctx context.Context, name string) (*entities.Session, error)

	// Close marks a session inactive
	Close(ctx context.Context, id string) (*entities.Session, error)

	// Reactivate makes a session the only active one
	Reactivate(ctx context.Context, id string) (*entities.Session, error)

	// Delete removes a session, its records and their images
	Delete(ctx context.Context, id string) error

	// List returns every session, newest first, and the active one if any
	List(ctx context.Context) ([]*entities.Session, *entities.Session)

	// Get returns one session
	Get(ctx context.Context, id string) (*entities.Session, error)

	// Active returns the session currently accepting submissions
	Active(ctx context.Context) (*entities.Session, error)

	// Summary aggregates a session's records
	Summary(ctx context.Context, id string) (*entities.SessionSummary, *entities.Session, error)

	// ExportCSV renders a session's records as CSV
	ExportCSV(ctx context.Context, id string) (string, error)

	// Reset clears every session and record
	Reset(ctx context.Context) error

	// Load seeds the store from the snapshot repository
	Load(ctx context.Context) error
}

var _ Service = (*SessionService)(nil)

// SessionService implements Service on top of the in-memory store
type SessionService struct {
	store      *survey.Store
	snapshots  repo.SnapshotRepository
	images     repo.ImageStore
	events     repo.EventPublisher
	allowReset bool
	logger     *zap.Logger
}

// NewSessionService creates a new session service.
// images may be nil when survey photos are not stored.
func NewSessionService(
	store *survey.Store,
	snapshots repo.SnapshotRepository,
	images repo.ImageStore,
	events repo.EventPublisher,
	allowReset bool,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:      store,
		snapshots:  snapshots,
		images:     images,
		events:     events,
		allowReset: allowReset,
		logger:     logger,
	}
}

func (s *SessionService) Create(ctx context.Context, name string) (*entities.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entities.ErrNameRequired
	}

	session := s.store.CreateSession(name)
	s.logger.Info("session created", zap.String("session_id", session.ID), zap.String("name", session.Name))

	s.persist(ctx)
	s.publish(ctx, entities.EventSessionCreated, session)
	return session, nil
}

func (s *SessionService) Close(ctx context.Context, id string) (*entities.Session, error) {
	session, err := s.store.CloseSession(id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session closed", zap.String("session_id", id))

	s.persist(ctx)
	s.publish(ctx, entities.EventSessionClosed, session)
	return session, nil
}

func (s *SessionService) Reactivate(ctx context.Context, id string) (*entities.Session, error) {
	session, err := s.store.ReactivateSession(id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session reactivated", zap.String("session_id", id))

	s.persist(ctx)
	s.publish(ctx, entities.EventSessionReactivated, session)
	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	session, err := s.store.GetSession(id)
	if err != nil {
		return err
	}
	records := s.store.Records(id)
	if !s.store.DeleteSession(id) {
		return entities.ErrSessionNotFound
	}
	s.logger.Info("session deleted", zap.String("session_id", id), zap.Int("records", len(records)))

	s.removeImages(ctx, records)
	s.persist(ctx)
	s.publish(ctx, entities.EventSessionDeleted, session)
	return nil
}

func (s *SessionService) List(ctx context.Context) ([]*entities.Session, *entities.Session) {
	sessions := s.store.ListSessions()
	active, ok := s.store.ActiveSession()
	if !ok {
		return sessions, nil
	}
	return sessions, active
}

func (s *SessionService) Get(ctx context.Context, id string) (*entities.Session, error) {
	return s.store.GetSession(id)
}

func (s *SessionService) Active(ctx context.Context) (*entities.Session, error) {
	active, ok := s.store.ActiveSession()
	if !ok {
		return nil, entities.ErrNoActiveSession
	}
	return active, nil
}

func (s *SessionService) Summary(ctx context.Context, id string) (*entities.SessionSummary, *entities.Session, error) {
	session, err := s.store.GetSession(id)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.store.Summary(id)
	if err != nil {
		return nil, nil, err
	}
	return summary, session, nil
}

func (s *SessionService) ExportCSV(ctx context.Context, id string) (string, error) {
	return s.store.ExportCSV(id)
}

func (s *SessionService) Reset(ctx context.Context) error {
	if !s.allowReset {
		return entities.ErrForbidden
	}
	s.store.Reset()
	s.logger.Warn("store reset")

	s.persist(ctx)
	s.publish(ctx, entities.EventStoreReset, nil)
	return nil
}

func (s *SessionService) Load(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	s.store.Restore(snap)
	s.logger.Info("store restored",
		zap.Int("sessions", len(snap.Sessions)),
		zap.Int("records", snap.RecordCount()),
	)
	return nil
}

// persist saves the current state. Failures are logged and never surface.
func (s *SessionService) persist(ctx context.Context) {
	if err := s.store.Persist(ctx, s.snapshots); err != nil {
		s.logger.Error("failed to persist snapshot", zap.Error(err))
	}
}

func (s *SessionService) publish(ctx context.Context, t entities.EventType, session *entities.Session) {
	if s.events == nil {
		return
	}
	sessionID := ""
	if session != nil {
		sessionID = session.ID
	}
	ev := entities.NewEvent(t, sessionID)
	ev.Session = session
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", string(t)), zap.Error(err))
	}
}

// removeImages deletes stored photos of removed records, best effort
func (s *SessionService) removeImages(ctx context.Context, records []*entities.SurveyRecord) {
	if s.images == nil {
		return
	}
	for _, r := range records {
		if r.ImagePath == "" {
			continue
		}
		if err := s.images.DeleteImage(ctx, r.ImagePath); err != nil {
			s.logger.Warn("failed to delete survey image",
				zap.String("record_id", r.ID),
				zap.Error(err),
			)
		}
	}
}
