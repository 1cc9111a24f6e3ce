package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/service"
	"blog-backend/internal/infrastructure/session"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

// UserHandler xử lý HTTP requests cho auth endpoints
type UserHandler struct {
	service service.ServiceInterface
	cookies *session.Cookies
}

func NewUserHandler(service service.ServiceInterface, cookies *session.Cookies) *UserHandler {
	return &UserHandler{service: service, cookies: cookies}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register xử lý POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	// Step 1: Parse body (JSON or form)
	var req model.RegisterRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation("Invalid request body.", err))
		return
	}

	// Step 2: Register
	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Step 3: Success, no session is started here
	response.Message(c, http.StatusCreated, "User registered successfully.", gin.H{"token": result.Token})
}

// LoginPage xử lý GET /auth/login
func (h *UserHandler) LoginPage(c *gin.Context) {
	response.LoginForm(c, http.StatusOK, c.Request.URL.RequestURI(), "")
}

// Login xử lý POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	fromForm := isFormPost(c)

	// Step 1: Parse body
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, fromForm, model.NewInvalidCredentialsError())
		return
	}
	if fromForm || response.WantsHTML(c) {
		req.Session = true
	}

	// Step 2: Authenticate
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.loginFailed(c, fromForm, err)
		return
	}

	// Step 3: Session cookie for browsers
	if result.Session != nil {
		if err := h.cookies.Write(c.Writer, result.Session); err != nil {
			response.Error(c, apperror.Internal(err))
			return
		}
	}

	// Step 4: Browser form posts go back to the page they came from
	if fromForm && response.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, safeNext(c.Query("next")))
		return
	}

	response.Message(c, http.StatusOK, "Login successful.", gin.H{"token": result.Token})
}

func (h *UserHandler) loginFailed(c *gin.Context, fromForm bool, err error) {
	if fromForm && response.WantsHTML(c) {
		appErr := apperror.As(err)
		if appErr == nil || appErr.Kind == apperror.KindInternal {
			response.Error(c, err)
			return
		}
		response.LoginForm(c, appErr.Status(), c.Request.URL.RequestURI(), appErr.Message)
		c.Abort()
		return
	}
	response.Error(c, err)
}

// Logout xử lý POST /auth/logout. Deletes the token and every session of
// the caller, then clears the cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	if err := h.service.Logout(c.Request.Context(), principal); err != nil {
		response.Error(c, err)
		return
	}

	h.cookies.Clear(c.Writer)

	logger.Info("logout", map[string]interface{}{
		"user_id": principal.ID.String(),
	})
	response.Message(c, http.StatusOK, "Logout successful.", nil)
}

// Me xử lý GET /auth/me
func (h *UserHandler) Me(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if !principal.IsAuthenticated() {
		response.Success(c, http.StatusOK, model.MeResponse{Authenticated: false})
		return
	}

	response.Success(c, http.StatusOK, model.MeResponse{
		Authenticated: true,
		User: &model.UserSummary{
			ID:       principal.ID,
			Username: principal.Username,
			Email:    principal.Email,
		},
		IsStaff: principal.IsStaff,
	})
}

// ========================================
// HELPERS
// ========================================

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if len(next) > 1 && next[0] == '/' && next[1] != '/' && next[1] != '\\' {
		return next
	}
	return "/api/v1/posts"
}
