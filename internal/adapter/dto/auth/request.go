package auth

// VerifyRequest exchanges the admin secret for an admin token
type VerifyRequest struct {
	AdminSecret string `json:"admin_secret" validate:"required"`
}
