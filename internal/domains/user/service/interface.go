package service

import (
	"context"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/infrastructure/session"
	"blog-backend/internal/shared/authz"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *model.User
	Token string
	// Session is set by Login when the request asks for one.
	Session *session.Session
}

// ServiceInterface is the registration, login, logout and credential lookup surface.
type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req model.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, principal *authz.Principal) error

	// PrincipalForToken returns nil for unknown keys and inactive owners.
	PrincipalForToken(ctx context.Context, key string) (*authz.Principal, error)
	// PrincipalForSession returns nil for unknown sessions; sessions of missing
	// or inactive users are discarded.
	PrincipalForSession(ctx context.Context, sessionID string) (*authz.Principal, error)
}
