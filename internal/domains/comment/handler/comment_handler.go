package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/service"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

// CommentHandler xử lý HTTP requests cho comments
type CommentHandler struct {
	service service.ServiceInterface
}

func NewCommentHandler(svc service.ServiceInterface) *CommentHandler {
	return &CommentHandler{service: svc}
}

// ListByPost xử lý GET /posts/:post/comments
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := postParam(c)
	if !ok {
		return
	}

	comments, err := h.service.ListByPost(c.Request.Context(), middleware.CurrentPrincipal(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments)
}

// Create xử lý POST /posts/:post/comments
func (h *CommentHandler) Create(c *gin.Context) {
	// Step 1: Parent post from the path
	postID, ok := postParam(c)
	if !ok {
		return
	}

	// Step 2: Parse body. A post or author field in the body is ignored.
	var req model.CommentRequest
	if err := bindBody(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := h.service.Create(c.Request.Context(), middleware.CurrentPrincipal(c), postID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Location", "/api/v1/comments/"+comment.ID.String())
	response.Success(c, http.StatusCreated, comment)
}

// Get xử lý GET /comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	comment, err := h.service.Get(c.Request.Context(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}

// Update xử lý PUT và PATCH /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req model.CommentRequest
	if err := bindBody(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := h.service.Update(c.Request.Context(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}

// Delete xử lý DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// postParam parses :post. Anything that is not a UUID cannot name a post.
func postParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("post"))
	if err != nil {
		response.Error(c, model.NewPostNotFoundError())
		return uuid.Nil, false
	}
	return id, true
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, model.NewCommentNotFoundError())
		return uuid.Nil, false
	}
	return id, true
}

func bindBody(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBind(dest); err != nil && !errors.Is(err, io.EOF) {
		return apperror.Validation("Invalid request body.", err)
	}
	return nil
}
