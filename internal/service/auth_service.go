package service

import (
	"context"

	"github.com/bonita-forward-api/internal/config"
	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/repository"
)

// authService resolves bearer tokens to profiles. Authentication itself is
// delegated to the hosted auth provider; this only maps its opaque token to
// a profile row and answers role questions.
type authService struct {
	profiles repository.ProfileRepository
	admin    *config.AdminConfig
}

// newAuthService creates a new AuthService
func newAuthService(profiles repository.ProfileRepository, admin *config.AdminConfig) *authService {
	return &authService{profiles: profiles, admin: admin}
}

// ResolveToken maps a session token to its profile; nil when unknown
func (s *authService) ResolveToken(ctx context.Context, token string) (*models.Profile, error) {
	if token == "" {
		return nil, nil
	}
	return s.profiles.GetByToken(ctx, token)
}

// IsAdmin reports whether the profile may use admin endpoints: either the
// admin role or membership on the configured email allow-list.
func (s *authService) IsAdmin(p *models.Profile) bool {
	if p == nil {
		return false
	}
	return p.Role == models.RoleAdmin || s.admin.IsAdminEmail(p.Email)
}
