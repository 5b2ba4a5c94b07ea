package repository

import (
	"context"
	"fmt"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"

	"gorm.io/gorm"
)

type MaterialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) *MaterialRepo {
	return &MaterialRepo{db: db}
}

// ListByStatus fetches the full snapshot of materials for the given status,
// newest first. An empty status means no status restriction (admin views).
// Search/category filtering and re-sorting happen in the service layer over
// this snapshot.
func (r *MaterialRepo) ListByStatus(ctx context.Context, status string) ([]models.Material, error) {
	var list []models.Material
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return list, nil
}

func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*models.Material, error) {
	var m models.Material
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepo) Create(ctx context.Context, m *models.Material) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	// GORM will populate m.ID and m.CreatedAt
	return nil
}

func (r *MaterialRepo) Update(ctx context.Context, id string, m *models.Material) error {
	// ensure ID set for Save
	m.ID = id
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

// IncrementDownloads bumps the denormalized downloads counter with a single
// UPDATE expression. No read step, so concurrent bumps never lose updates.
func (r *MaterialRepo) IncrementDownloads(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment downloads: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews is the views counterpart of IncrementDownloads.
func (r *MaterialRepo) IncrementViews(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetInteractionCounts rewrites both counters from authoritative values,
// used when reconciling against the event logs.
func (r *MaterialRepo) SetInteractionCounts(ctx context.Context, id string, downloads, views int64) error {
	if err := r.db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"downloads": downloads, "views": views}).Error; err != nil {
		return fmt.Errorf("set interaction counts: %w", err)
	}
	return nil
}

// SetRatingAggregate writes the derived rating fields back onto the material row.
func (r *MaterialRepo) SetRatingAggregate(ctx context.Context, id string, avg float64, count int64) error {
	if err := r.db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": avg, "rating_count": count}).Error; err != nil {
		return fmt.Errorf("set rating aggregate: %w", err)
	}
	return nil
}

// CountByStatus counts materials with the given status ("" counts all).
func (r *MaterialRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Material{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return count, nil
}

// SumDownloads sums the downloads counter over materials with the given status.
func (r *MaterialRepo) SumDownloads(ctx context.Context, status string) (int64, error) {
	return r.sumColumn(ctx, "downloads", status)
}

// SumViews sums the views counter over materials with the given status.
func (r *MaterialRepo) SumViews(ctx context.Context, status string) (int64, error) {
	return r.sumColumn(ctx, "views", status)
}

func (r *MaterialRepo) sumColumn(ctx context.Context, column, status string) (int64, error) {
	var total struct {
		Total int64
	}
	q := r.db.WithContext(ctx).Model(&models.Material{}).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0) as total", column))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("sum %s: %w", column, err)
	}
	return total.Total, nil
}
