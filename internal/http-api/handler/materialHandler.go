package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/middleware"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/service"
)

type MaterialHandler struct {
	svc service.CatalogService
}

func NewMaterialHandler(svc service.CatalogService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// RegisterPublicRoutes mounts the unauthenticated catalog routes.
func (h *MaterialHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/featured", h.Featured)
	rg.GET("/:material_id", h.Get)
}

// RegisterAdminRoutes mounts the CRUD routes. The group is expected to
// already carry AuthMiddleware.
func (h *MaterialHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/", middleware.RequireScopes("catalog:read"), middleware.RequireAdmin(), h.AdminList)
	rg.POST("/", middleware.RequireScopes("catalog:write"), middleware.RequireAdmin(), h.Create)
	rg.PUT("/:material_id", middleware.RequireScopes("catalog:write"), middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:material_id", middleware.RequireScopes("catalog:delete"), middleware.RequireAdmin(), h.Delete)
}

// List handles GET /api/materials with q, category and sort parameters.
// Only active materials are visible here regardless of parameters.
func (h *MaterialHandler) List(c *gin.Context) {
	filter, ok := parseCatalogFilter(c)
	if !ok {
		return
	}
	filter.Status = models.StatusActive

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, degraded, err := h.svc.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.MaterialBasicResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, dto.FromModelToBasicResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     resp,
		"total":    len(resp),
		"degraded": degraded,
	})
}

// Featured handles GET /api/materials/featured (three newest active).
func (h *MaterialHandler) Featured(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, degraded, err := h.svc.Featured(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.MaterialBasicResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, dto.FromModelToBasicResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     resp,
		"degraded": degraded,
	})
}

func (h *MaterialHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m, err := h.svc.GetByID(ctx, c.Param("material_id"))
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Inactive rows stay hidden from the public detail route.
	if m.Status != models.StatusActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToResponse(*m))
}

// AdminList handles GET /api/admin/materials: every status visible,
// optional ?status= restriction.
func (h *MaterialHandler) AdminList(c *gin.Context) {
	filter, ok := parseCatalogFilter(c)
	if !ok {
		return
	}
	filter.Status = strings.TrimSpace(c.Query("status"))
	if filter.Status != "" && !validListStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be one of: active, inactive, pending"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, degraded, err := h.svc.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, dto.FromModelToResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     resp,
		"total":    len(resp),
		"degraded": degraded,
	})
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var in dto.CreateMaterialDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	if err := h.svc.Create(ctx, &model); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrCategoryNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToResponse(model))
}

func (h *MaterialHandler) Update(c *gin.Context) {
	var in dto.UpdateMaterialDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, c.Param("material_id"), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCategoryNotFound),
			errors.Is(err, service.ErrTitleRequired),
			errors.Is(err, service.ErrFileURLRequired),
			errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToResponse(*updated))
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("material_id")); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// parseCatalogFilter reads the shared listing parameters. Reports false
// after writing the error response when sort is invalid.
func parseCatalogFilter(c *gin.Context) (dto.CatalogFilter, bool) {
	filter := dto.CatalogFilter{
		SearchText:   strings.TrimSpace(c.Query("q")),
		CategoryName: strings.TrimSpace(c.Query("category")),
		SortBy:       strings.TrimSpace(c.Query("sort")),
	}
	if filter.SortBy != "" && !service.ValidSortOrder(filter.SortBy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort, must be one of: newest, oldest, downloads, views, rating, title"})
		return dto.CatalogFilter{}, false
	}
	return filter, true
}

func validListStatus(status string) bool {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusPending:
		return true
	}
	return false
}
