package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/pagination"
)

type Response struct {
	Success bool             `json:"success"`
	Data    interface{}      `json:"data,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    apperror.Kind     `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	Render(c, statusCode, Response{Success: true, Data: data})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *pagination.Meta) {
	Render(c, statusCode, Response{Success: true, Data: data, Meta: meta})
}

// Message answers {success, message, ...extra}. Used by the auth endpoints.
func Message(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	Render(c, statusCode, body)
}

// Paginated writes a page of results with absolute next/previous links.
func Paginated(c *gin.Context, data interface{}, params pagination.Params, total int) {
	SuccessWithMeta(c, http.StatusOK, data, pagination.NewMeta(params, total, RequestURL(c)))
}

// RequestURL rebuilds the absolute URL of the current request.
func RequestURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps err to its status and writes the error body. Errors without an
// AppError in their chain are logged and answered as a generic 500.
func Error(c *gin.Context, err error) {
	appErr := apperror.As(err)
	if appErr == nil {
		appErr = apperror.Internal(err)
	}

	if appErr.Kind == apperror.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}

	_ = c.Error(err)
	Render(c, appErr.Status(), ErrorBody{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Kind,
		Fields:  appErr.Fields,
	})
	c.Abort()
}
