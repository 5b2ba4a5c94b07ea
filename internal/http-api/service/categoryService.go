package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/naamyuvraj/opensource-study-materials/internal/cache"
	"github.com/naamyuvraj/opensource-study-materials/internal/fallback"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/realtime"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryExists       = errors.New("category name already exists")
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a display name into a url-safe slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CategoryCatalogStore is the slice of the category repository the category
// service needs.
type CategoryCatalogStore interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id string, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

type CategoryService interface {
	// GetCategories returns every category ordered by name. The bool is the
	// degraded flag: true means the fallback set was substituted.
	GetCategories(ctx context.Context) ([]models.Category, bool, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id string, d dto.UpdateCategoryDTO) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	categories CategoryCatalogStore
	cache      *cache.Store
	publisher  ChangePublisher
	logger     *slog.Logger
}

func NewCategoryService(
	categories CategoryCatalogStore,
	cacheStore *cache.Store,
	publisher ChangePublisher,
	logger *slog.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		cache:      cacheStore,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *categoryService) GetCategories(ctx context.Context) ([]models.Category, bool, error) {
	var cached []models.Category
	if hit, err := s.cache.GetJSON(ctx, cache.KeyCategories, &cached); err != nil {
		s.logger.Warn("category cache read failed", "error", err)
	} else if hit {
		return cached, false, nil
	}

	list, err := s.categories.GetAll(ctx)
	if err != nil {
		s.logger.Error("category fetch failed, serving fallback", "error", err)
		return fallback.Categories(), true, nil
	}

	if err := s.cache.SetJSON(ctx, cache.KeyCategories, list); err != nil {
		s.logger.Warn("category cache write failed", "error", err)
	}
	return list, false, nil
}

func (s *categoryService) Create(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameRequired
	}

	if _, err := s.categories.GetByName(ctx, c.Name); err == nil {
		return ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if c.Slug == "" {
		c.Slug = GenerateSlug(c.Name)
	}
	c.MaterialCount = 0

	if err := s.categories.Create(ctx, c); err != nil {
		return err
	}

	s.notifyChange(ctx, realtime.ActionInsert, c.ID)
	return nil
}

func (s *categoryService) Update(ctx context.Context, id string, d dto.UpdateCategoryDTO) (*models.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		if name != existing.Name {
			if dup, err := s.categories.GetByName(ctx, name); err == nil && dup.ID != id {
				return nil, ErrCategoryExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			existing.Slug = GenerateSlug(name)
		}
		existing.Name = name
	}
	if d.Icon != nil {
		existing.Icon = *d.Icon
	}
	if d.Description != nil {
		existing.Description = d.Description
	}

	if err := s.categories.Update(ctx, id, existing); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, realtime.ActionUpdate, id)
	return existing, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.notifyChange(ctx, realtime.ActionDelete, id)
	return nil
}

func (s *categoryService) notifyChange(ctx context.Context, action realtime.Action, id string) {
	if s.publisher != nil {
		s.publisher.Publish(realtime.TableCategories, action, id)
	}
	if err := s.cache.Invalidate(ctx, cache.KeyCategories); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}
