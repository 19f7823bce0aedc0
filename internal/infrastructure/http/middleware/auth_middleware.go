package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appErrors "github.com/rondagdag/audience-survey/errors"
	"github.com/rondagdag/audience-survey/internal/adapter/handler"
	"github.com/rondagdag/audience-survey/internal/domain/entities"
	"github.com/rondagdag/audience-survey/pkg/jwt"
)

// AdminSecretHeader carries the raw admin secret for scripted clients
const AdminSecretHeader = "X-Admin-Secret"

// AdminContextKey is set to true on requests that passed EchoAdmin
const AdminContextKey = "admin"

// AdminAuthenticator validates admin credentials
type AdminAuthenticator interface {
	CheckSecret(secret string) bool
	ValidateToken(token string) error
}

// EchoAdmin returns an Echo middleware that accepts a Bearer admin token
// or the X-Admin-Secret header
func EchoAdmin(auth AdminAuthenticator, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret := c.Request().Header.Get(AdminSecretHeader); secret != "" {
				if !auth.CheckSecret(secret) {
					return handler.HandleError(logger, c, appErrors.ErrInvalidCredentials())
				}
				c.Set(AdminContextKey, true)
				return next(c)
			}

			token := extractToken(c)
			if token == "" {
				return handler.HandleError(logger, c, appErrors.ErrUnauthenticated())
			}

			if err := auth.ValidateToken(token); err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					return handler.HandleError(logger, c, appErrors.ErrTokenExpired())
				case errors.Is(err, entities.ErrForbidden):
					return handler.HandleError(logger, c, appErrors.ErrForbidden("Admin role required"))
				default:
					return handler.HandleError(logger, c, appErrors.ErrInvalidToken())
				}
			}

			c.Set(AdminContextKey, true)
			return next(c)
		}
	}
}

// Helper functions

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
