package service

import (
	"context"
	"net/http"
	"strings"

	"blog-backend/internal/infrastructure/session"
	"blog-backend/internal/shared/authz"
)

// Resolver turns request credentials into a principal. nil, nil means no
// usable credentials of this kind.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) (*authz.Principal, error)
}

// TokenResolver reads "Authorization: Token <key>" or "Authorization: Bearer <key>".
type TokenResolver struct {
	auth ServiceInterface
}

func NewTokenResolver(auth ServiceInterface) *TokenResolver {
	return &TokenResolver{auth: auth}
}

func (t *TokenResolver) Resolve(ctx context.Context, r *http.Request) (*authz.Principal, error) {
	key, ok := parseAuthorization(r.Header.Get("Authorization"))
	if !ok {
		return nil, nil
	}
	return t.auth.PrincipalForToken(ctx, key)
}

func parseAuthorization(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
	default:
		return "", false
	}
	if len(parts[1]) > 128 {
		return "", false
	}
	return parts[1], true
}

// SessionResolver reads the signed session cookie.
type SessionResolver struct {
	auth    ServiceInterface
	cookies *session.Cookies
}

func NewSessionResolver(auth ServiceInterface, cookies *session.Cookies) *SessionResolver {
	return &SessionResolver{auth: auth, cookies: cookies}
}

func (s *SessionResolver) Resolve(ctx context.Context, r *http.Request) (*authz.Principal, error) {
	sid, ok := s.cookies.Read(r)
	if !ok {
		return nil, nil
	}
	return s.auth.PrincipalForSession(ctx, sid)
}

// ChainResolver tries resolvers in order; the first principal wins. An error
// from one resolver does not stop the others; it is reported only if no
// resolver produced a principal.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(ctx context.Context, r *http.Request) (*authz.Principal, error) {
	var firstErr error
	for _, res := range c {
		p, err := res.Resolve(ctx, r)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if p.IsAuthenticated() {
			return p, nil
		}
	}
	return nil, firstErr
}
