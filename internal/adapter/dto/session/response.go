package session

import (
	"time"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// SessionResponse represents a session in responses
type SessionResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// ListSessionsResponse lists sessions newest first with the active one
type ListSessionsResponse struct {
	Sessions      []*SessionResponse `json:"sessions"`
	ActiveSession *SessionResponse   `json:"active_session"`
}

// SummaryResponse pairs a session with its aggregates
type SummaryResponse struct {
	Session *SessionResponse         `json:"session"`
	Summary *entities.SessionSummary `json:"summary"`
}

// MessageResponse carries a session and a human readable message
type MessageResponse struct {
	Message string           `json:"message"`
	Session *SessionResponse `json:"session,omitempty"`
}
