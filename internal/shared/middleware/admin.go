package middleware

import (
	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/authz"
	"blog-backend/internal/shared/response"
)

// RequireStaff checks the principal against the category management rule.
// Must run after Authenticate.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authz.Authorize(CurrentPrincipal(c), authz.ManageCategories, nil); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}
