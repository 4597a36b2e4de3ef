package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/sales-org-service/internal/server"
)

// AuthService configures the Clerk SDK for session verification.
type AuthService struct {
	server *server.Server
}

// NewAuthService sets the Clerk secret key when one is configured.
func NewAuthService(s *server.Server) *AuthService {
	if s.Config.Auth.SecretKey != "" {
		clerk.SetKey(s.Config.Auth.SecretKey)
	}
	return &AuthService{
		server: s,
	}
}

// Enabled reports whether write routes require a Clerk session.
func (a *AuthService) Enabled() bool {
	return a.server.Config.Auth.SecretKey != ""
}
