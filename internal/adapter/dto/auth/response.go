package auth

// AuthResponse represents the admin token issued by /auth/verify
type AuthResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	TokenType   string `json:"token_type"` // "Bearer"
}
