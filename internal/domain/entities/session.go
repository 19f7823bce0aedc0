package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one live presentation collecting surveys
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// NewSession creates a new active session
func NewSession(name string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}
}

// Close marks the session inactive and stamps the close time
func (s *Session) Close() {
	now := time.Now().UTC()
	s.IsActive = false
	s.ClosedAt = &now
}

// Reactivate re-opens a closed session
func (s *Session) Reactivate() {
	s.IsActive = true
	s.ClosedAt = nil
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.ClosedAt != nil {
		closed := *s.ClosedAt
		out.ClosedAt = &closed
	}
	return &out
}
