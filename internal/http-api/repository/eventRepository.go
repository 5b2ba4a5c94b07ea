package repository

import (
	"context"
	"fmt"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"

	"gorm.io/gorm"
)

// EventRepo appends download/view log rows. The logs are the durable source
// the denormalized counters are allowed to drift from.
type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) InsertDownload(ctx context.Context, e *models.DownloadEvent) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert download event: %w", err)
	}
	return nil
}

func (r *EventRepo) InsertView(ctx context.Context, e *models.ViewEvent) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert view event: %w", err)
	}
	return nil
}

func (r *EventRepo) CountDownloads(ctx context.Context, materialID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DownloadEvent{}).
		Where("material_id = ?", materialID).Count(&count).Error
	return count, err
}

func (r *EventRepo) CountViews(ctx context.Context, materialID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ViewEvent{}).
		Where("material_id = ?", materialID).Count(&count).Error
	return count, err
}
