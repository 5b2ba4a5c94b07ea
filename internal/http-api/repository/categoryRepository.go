package repository

import (
	"context"
	"fmt"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"

	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// GetAll returns every category ordered by name ascending.
func (r *CategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, id string, c *models.Category) error {
	c.ID = id
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// AdjustMaterialCount shifts the display-only material_count by delta.
// The count is eventually-consistent metadata, so a miss is not an error.
func (r *CategoryRepo) AdjustMaterialCount(ctx context.Context, id string, delta int) error {
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		UpdateColumn("material_count", gorm.Expr("material_count + ?", delta)).Error; err != nil {
		return fmt.Errorf("adjust material count: %w", err)
	}
	return nil
}
