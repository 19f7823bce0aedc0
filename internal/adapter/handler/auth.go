package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/errors"
	authDTO "github.com/rondagdag/audience-survey/internal/adapter/dto/auth"
	"github.com/rondagdag/audience-survey/internal/usecase/auth"
)

// Auth handles admin authentication HTTP requests
type Auth struct {
	adminService *auth.AdminService
	logger       *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(adminService *auth.AdminService, logger *zap.Logger) *Auth {
	return &Auth{
		adminService: adminService,
		logger:       logger,
	}
}

// Verify checks the admin secret and issues an admin token
// @Summary      Verify admin secret
// @Description  Exchanges the shared admin secret for a short-lived admin bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.VerifyRequest  true  "Admin secret"
// @Success      200      {object}  auth.AuthResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid payload"
// @Failure      401      {object}  map[string]interface{}  "Unauthorized"
// @Router       /auth/verify [post]
func (h *Auth) Verify(c echo.Context) error {
	var req authDTO.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidCredentials())
	}

	token, err := h.adminService.Verify(c.Request().Context(), req.AdminSecret)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &authDTO.AuthResponse{
		Message:     "Admin secret verified",
		AccessToken: token.AccessToken,
		ExpiresIn:   int(time.Until(token.ExpiresAt).Seconds()),
		TokenType:   "Bearer",
	})
}
