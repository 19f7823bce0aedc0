package entities

import "time"

// EventType names a change pushed to live dashboards
type EventType string

const (
	EventSessionCreated     EventType = "session.created"
	EventSessionClosed      EventType = "session.closed"
	EventSessionReactivated EventType = "session.reactivated"
	EventSessionDeleted     EventType = "session.deleted"
	EventSurveySubmitted    EventType = "survey.submitted"
	EventStoreReset         EventType = "store.reset"
)

// Event describes a store change. Events without a SessionID concern every session.
type Event struct {
	Type      EventType     `json:"type"`
	SessionID string        `json:"sessionId,omitempty"`
	Session   *Session      `json:"session,omitempty"`
	Record    *SurveyRecord `json:"record,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewEvent stamps an event with the current time
func NewEvent(t EventType, sessionID string) Event {
	return Event{Type: t, SessionID: sessionID, Timestamp: time.Now().UTC()}
}
