package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/category/model"
	"blog-backend/internal/domains/category/service"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type CategoryHandler struct {
	service service.ServiceInterface
}

func NewCategoryHandler(svc service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// ========== LIST: GET /categories ==========
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// ========== CREATE: POST /categories ==========
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperror.Validation("Invalid request body.", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Location", "/api/v1/categories/"+created.ID.String())
	response.Success(c, http.StatusCreated, created)
}

// ========== GET: GET /categories/:id ==========
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, found)
}

// ========== DELETE: DELETE /categories/:id ==========
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ParseID reads the :id path param. A malformed id is answered as not found,
// since no category can have it.
func ParseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, model.NewCategoryNotFoundError())
		return uuid.Nil, false
	}
	return id, true
}
