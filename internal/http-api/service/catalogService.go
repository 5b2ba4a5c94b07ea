package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/naamyuvraj/opensource-study-materials/internal/cache"
	"github.com/naamyuvraj/opensource-study-materials/internal/fallback"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/realtime"
)

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrFileURLRequired  = errors.New("file_url is required")
	ErrInvalidStatus    = errors.New("invalid status")
)

// MaterialStore is the slice of the material repository the catalog needs.
type MaterialStore interface {
	ListByStatus(ctx context.Context, status string) ([]models.Material, error)
	GetByID(ctx context.Context, id string) (*models.Material, error)
	Create(ctx context.Context, m *models.Material) error
	Update(ctx context.Context, id string, m *models.Material) error
	Delete(ctx context.Context, id string) error
}

// CategoryStore is the slice of the category repository the catalog needs.
type CategoryStore interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	AdjustMaterialCount(ctx context.Context, id string, delta int) error
}

// ChangePublisher fans change events out to the realtime feed. Nil-safe
// wrapper around the hub so tests can run without one.
type ChangePublisher interface {
	Publish(table string, action realtime.Action, recordID string)
}

type CatalogService interface {
	// List returns the filtered, sorted snapshot. The bool is the degraded
	// flag: true means the record store was unreachable and the fallback
	// dataset was substituted.
	List(ctx context.Context, filter dto.CatalogFilter) ([]models.Material, bool, error)
	Featured(ctx context.Context) ([]models.Material, bool, error)
	GetByID(ctx context.Context, id string) (*models.Material, error)
	Create(ctx context.Context, m *models.Material) error
	Update(ctx context.Context, id string, d dto.UpdateMaterialDTO) (*models.Material, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	materials  MaterialStore
	categories CategoryStore
	cache      *cache.Store
	publisher  ChangePublisher
	logger     *slog.Logger
}

func NewCatalogService(
	materials MaterialStore,
	categories CategoryStore,
	cacheStore *cache.Store,
	publisher ChangePublisher,
	logger *slog.Logger,
) CatalogService {
	return &catalogService{
		materials:  materials,
		categories: categories,
		cache:      cacheStore,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *catalogService) List(ctx context.Context, filter dto.CatalogFilter) ([]models.Material, bool, error) {
	snapshot, err := s.materials.ListByStatus(ctx, filter.Status)
	degraded := false
	if err != nil {
		// Degraded mode: keep the page populated with the fixed dataset
		// rather than showing zero results.
		s.logger.Error("material snapshot fetch failed, serving fallback", "error", err)
		snapshot = fallback.Materials()
		if filter.Status != "" {
			kept := snapshot[:0]
			for _, m := range snapshot {
				if m.Status == filter.Status {
					kept = append(kept, m)
				}
			}
			snapshot = kept
		}
		degraded = true
	}

	filtered := FilterMaterials(snapshot, filter.SearchText, filter.CategoryName)
	return SortMaterials(filtered, filter.SortBy), degraded, nil
}

// Featured returns the first three active materials, newest first.
func (s *catalogService) Featured(ctx context.Context) ([]models.Material, bool, error) {
	list, degraded, err := s.List(ctx, dto.CatalogFilter{Status: models.StatusActive, SortBy: SortNewest})
	if err != nil {
		return nil, degraded, err
	}
	if len(list) > 3 {
		list = list[:3]
	}
	return list, degraded, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*models.Material, error) {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *catalogService) Create(ctx context.Context, m *models.Material) error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(m.FileURL) == "" {
		return ErrFileURLRequired
	}
	if m.Status == "" {
		m.Status = models.StatusPending
	}
	if !validStatus(m.Status) {
		return ErrInvalidStatus
	}

	// Category must exist; denormalize its name onto the row.
	if m.CategoryID == nil {
		return ErrCategoryNotFound
	}
	category, err := s.categories.GetByID(ctx, *m.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	m.Category = category.Name

	// Counters are derived fields and always start at zero.
	m.Downloads = 0
	m.Views = 0
	m.Rating = 0
	m.RatingCount = 0

	if err := s.materials.Create(ctx, m); err != nil {
		return err
	}

	// Display-only count; a failed bump just drifts the category card.
	if err := s.categories.AdjustMaterialCount(ctx, category.ID, 1); err != nil {
		s.logger.Warn("category material_count bump failed", "category_id", category.ID, "error", err)
	}

	s.notifyChange(ctx, realtime.TableMaterials, realtime.ActionInsert, m.ID)
	return nil
}

func (s *catalogService) Update(ctx context.Context, id string, d dto.UpdateMaterialDTO) (*models.Material, error) {
	existing, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	prevCategoryID := existing.CategoryID
	d.ApplyTo(existing)

	if strings.TrimSpace(existing.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(existing.FileURL) == "" {
		return nil, ErrFileURLRequired
	}
	if !validStatus(existing.Status) {
		return nil, ErrInvalidStatus
	}

	// Category change re-resolves the denormalized name and shifts counts.
	if existing.CategoryID != nil && (prevCategoryID == nil || *existing.CategoryID != *prevCategoryID) {
		category, err := s.categories.GetByID(ctx, *existing.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		existing.Category = category.Name
		if prevCategoryID != nil {
			if err := s.categories.AdjustMaterialCount(ctx, *prevCategoryID, -1); err != nil {
				s.logger.Warn("category material_count bump failed", "category_id", *prevCategoryID, "error", err)
			}
		}
		if err := s.categories.AdjustMaterialCount(ctx, category.ID, 1); err != nil {
			s.logger.Warn("category material_count bump failed", "category_id", category.ID, "error", err)
		}
	}

	// Save stamps updated_at via autoUpdateTime.
	if err := s.materials.Update(ctx, id, existing); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, realtime.TableMaterials, realtime.ActionUpdate, id)
	return existing, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	existing, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	// Event and rating rows go with the material via FK cascade.
	if err := s.materials.Delete(ctx, id); err != nil {
		return err
	}

	if existing.CategoryID != nil {
		if err := s.categories.AdjustMaterialCount(ctx, *existing.CategoryID, -1); err != nil {
			s.logger.Warn("category material_count bump failed", "category_id", *existing.CategoryID, "error", err)
		}
	}

	s.notifyChange(ctx, realtime.TableMaterials, realtime.ActionDelete, id)
	return nil
}

// notifyChange publishes to the change feed and drops the derived caches.
// Both are best-effort side channels.
func (s *catalogService) notifyChange(ctx context.Context, table string, action realtime.Action, id string) {
	if s.publisher != nil {
		s.publisher.Publish(table, action, id)
	}
	if err := s.cache.Invalidate(ctx, cache.KeyStats, cache.KeyCategories); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}

func validStatus(status string) bool {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusPending:
		return true
	}
	return false
}
