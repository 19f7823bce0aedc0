package session

// CreateSessionRequest represents the request to start a session
type CreateSessionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}
