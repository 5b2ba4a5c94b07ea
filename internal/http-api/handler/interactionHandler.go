package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/middleware"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/service"
)

type InteractionHandler struct {
	svc service.InteractionService
}

func NewInteractionHandler(svc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// RegisterRoutes mounts the interaction routes on the materials group. The
// group carries the per-IP rate limiter and optional auth.
func (h *InteractionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:material_id/download", h.Download)
	rg.POST("/:material_id/view", h.View)
}

// RegisterAdminRoutes mounts the counter-repair route on the admin materials
// group, which already carries the auth middleware.
func (h *InteractionHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:material_id/reconcile", middleware.RequireAdmin(), h.Reconcile)
}

// Download handles POST /api/materials/:material_id/download.
func (h *InteractionHandler) Download(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	fileURL, err := h.svc.RecordDownload(ctx, c.Param("material_id"), metaFromRequest(c))
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_url": fileURL})
}

// View handles POST /api/materials/:material_id/view.
func (h *InteractionHandler) View(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RecordView(ctx, c.Param("material_id"), metaFromRequest(c)); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Reconcile handles POST /api/admin/materials/:material_id/reconcile. It
// rewrites the download/view counters from the event logs.
func (h *InteractionHandler) Reconcile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.ReconcileCounters(ctx, c.Param("material_id")); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// metaFromRequest collects the event attribution. ProfileID is present only
// when OptionalAuthMiddleware decoded a token.
func metaFromRequest(c *gin.Context) service.InteractionMeta {
	meta := service.InteractionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if userID, ok := c.Get("userID"); ok {
		if id, ok := userID.(string); ok && id != "" {
			meta.ProfileID = &id
		}
	}
	return meta
}
