package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/authz"
	"blog-backend/internal/shared/response"
)

const PrincipalKey = "principal"

// PrincipalResolver turns request credentials into a principal.
// Unknown credentials must resolve to anonymous, not an error; an error
// means the backing store failed.
type PrincipalResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*authz.Principal, error)
}

// Authenticate resolves the caller and stores the principal on the context.
// It never rejects a request: anonymous callers continue as anonymous.
func Authenticate(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			log.Warn().
				Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Msg("credential resolution failed, continuing as anonymous")
			principal = nil
		}
		if principal == nil {
			principal = authz.Anonymous()
		}

		c.Set(PrincipalKey, principal)
		if principal.IsAuthenticated() {
			c.Set("user_id", principal.ID.String())
		}

		c.Next()
	}
}

// RequireAuth rejects anonymous callers with AUTHENTICATION_REQUIRED.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentPrincipal(c).IsAuthenticated() {
			response.Error(c, apperror.AuthenticationRequired())
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by Authenticate, or anonymous.
func CurrentPrincipal(c *gin.Context) *authz.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*authz.Principal); ok && p != nil {
			return p
		}
	}
	return authz.Anonymous()
}
