package presenter

import (
	"github.com/rondagdag/audience-survey/internal/adapter/dto/session"
	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// ToSessionResponse converts a Session entity to SessionResponse DTO
func ToSessionResponse(s *entities.Session) *session.SessionResponse {
	if s == nil {
		return nil
	}
	return &session.SessionResponse{
		ID:        s.ID,
		Name:      s.Name,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		ClosedAt:  s.ClosedAt,
	}
}

// ToSessionResponses converts sessions preserving order
func ToSessionResponses(sessions []*entities.Session) []*session.SessionResponse {
	out := make([]*session.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToSessionResponse(s))
	}
	return out
}
