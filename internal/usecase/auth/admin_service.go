package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	"github.com/rondagdag/audience-survey/pkg/jwt"
)

// AdminToken is issued after a successful secret check
type AdminToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AdminService checks the shared admin secret and issues admin tokens
type AdminService struct {
	secret     string
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewAdminService creates a new admin service. An empty secret rejects everyone.
func NewAdminService(secret string, jwtManager *jwt.Manager, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		secret:     secret,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Verify exchanges the admin secret for a token
func (s *AdminService) Verify(ctx context.Context, secret string) (*AdminToken, error) {
	if !s.CheckSecret(secret) {
		s.logger.Warn("admin verification rejected")
		return nil, entities.ErrUnauthorized
	}
	token, expiresAt, err := s.jwtManager.GenerateAdminToken()
	if err != nil {
		return nil, err
	}
	return &AdminToken{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// CheckSecret compares secret with the configured one in constant time
func (s *AdminService) CheckSecret(secret string) bool {
	if s.secret == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) == 1
}

// ValidateToken accepts admin tokens issued by Verify
func (s *AdminService) ValidateToken(token string) error {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.ErrTokenExpired
		}
		return entities.ErrUnauthorized
	}
	if claims.Role != jwt.RoleAdmin {
		return entities.ErrForbidden
	}
	return nil
}
