package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/middleware"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/service"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// RegisterRoutes mounts the rating routes on the materials group. Listing and
// the average are public; submitting and deleting need an authenticated profile.
func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/:material_id/ratings", h.List)
	rg.GET("/:material_id/ratings/average", h.Average)
	rg.POST("/:material_id/ratings", authMW, middleware.RequireScopes("catalog:rate"), h.Submit)
	rg.GET("/:material_id/ratings/me", authMW, middleware.RequireScopes("catalog:rate"), h.GetOwn)
	rg.DELETE("/:material_id/ratings", authMW, middleware.RequireScopes("catalog:rate"), h.Delete)
}

// Submit handles POST /api/materials/:material_id/ratings. Upsert: a repeat
// submission replaces the caller's previous value.
func (h *RatingHandler) Submit(c *gin.Context) {
	var in dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileID := c.GetString("userID")
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile identity"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rating, err := h.svc.SubmitRating(ctx, profileID, c.Param("material_id"), in.Rating, in.Review)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.UserRatingResponse{
		Rating:    rating.Rating,
		Review:    rating.Review,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	})
}

// Average handles GET /api/materials/:material_id/ratings/average.
func (h *RatingHandler) Average(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	avg, count, err := h.svc.GetAverage(ctx, c.Param("material_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"average": avg,
		"count":   count,
	})
}

// GetOwn handles GET /api/materials/:material_id/ratings/me (the caller's own).
func (h *RatingHandler) GetOwn(c *gin.Context) {
	profileID := c.GetString("userID")
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile identity"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rating, err := h.svc.GetUserRating(ctx, profileID, c.Param("material_id"))
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UserRatingResponse{
		Rating:    rating.Rating,
		Review:    rating.Review,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	})
}

// Delete handles DELETE /api/materials/:material_id/ratings.
func (h *RatingHandler) Delete(c *gin.Context) {
	profileID := c.GetString("userID")
	if profileID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile identity"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteRating(ctx, profileID, c.Param("material_id")); err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/materials/:material_id/ratings with pagination.
func (h *RatingHandler) List(c *gin.Context) {
	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.GetMaterialRatings(ctx, c.Param("material_id"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
