package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	categorymodel "blog-backend/internal/domains/category/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

// PostHandler xử lý HTTP requests cho posts và likes
type PostHandler struct {
	service service.ServiceInterface
}

func NewPostHandler(svc service.ServiceInterface) *PostHandler {
	return &PostHandler{service: svc}
}

// ========================================
// READ
// ========================================

// List xử lý GET /posts
func (h *PostHandler) List(c *gin.Context) {
	// Step 1: Query params
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation("Invalid query parameters.", err))
		return
	}

	// Step 2: Page of published posts
	result, err := h.service.List(c.Request.Context(), middleware.CurrentPrincipal(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Params, result.Total)
}

// ListByCategory xử lý GET /categories/:id/posts
func (h *PostHandler) ListByCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, categorymodel.NewCategoryNotFoundError())
		return
	}

	result, err := h.service.ListByCategory(c.Request.Context(), middleware.CurrentPrincipal(c), id, c.Query("page"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Params, result.Total)
}

// Get xử lý GET /posts/:post
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("post"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// ========================================
// WRITE
// ========================================

// Create xử lý POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	// Step 1: Parse body
	var req model.CreatePostRequest
	if err := bindBody(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	// Step 2: Create with the caller as author
	post, err := h.service.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Location", "/api/v1/posts/"+post.Slug)
	response.Success(c, http.StatusCreated, post)
}

// Update xử lý PUT /posts/:post (full replacement)
func (h *PostHandler) Update(c *gin.Context) {
	h.update(c, false)
}

// Patch xử lý PATCH /posts/:post
func (h *PostHandler) Patch(c *gin.Context) {
	h.update(c, true)
}

func (h *PostHandler) update(c *gin.Context, partial bool) {
	var req model.UpdatePostRequest
	if err := bindBody(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	req.Partial = partial

	post, err := h.service.Update(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("post"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// Delete xử lý DELETE /posts/:post. Body must carry confirm_delete: true.
func (h *PostHandler) Delete(c *gin.Context) {
	var req model.DeletePostRequest
	if err := bindBody(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("post"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Post deleted successfully.", nil)
}

// ========================================
// LIKES
// ========================================

// Like xử lý POST /posts/:post/like
func (h *PostHandler) Like(c *gin.Context) {
	post, err := h.service.Like(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("post"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// Unlike xử lý DELETE /posts/:post/like
func (h *PostHandler) Unlike(c *gin.Context) {
	post, err := h.service.Unlike(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("post"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// bindBody accepts JSON or form bodies. An empty body binds to the zero value.
func bindBody(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBind(dest); err != nil && !errors.Is(err, io.EOF) {
		return apperror.Validation("Invalid request body.", err)
	}
	return nil
}
