package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/naamyuvraj/opensource-study-materials/internal/cache"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/realtime"
)

// InteractionMaterialStore is the slice of the material repository the
// recorder needs.
type InteractionMaterialStore interface {
	GetByID(ctx context.Context, id string) (*models.Material, error)
	IncrementDownloads(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	SetInteractionCounts(ctx context.Context, id string, downloads, views int64) error
}

// EventStore appends the durable interaction log rows and counts them back
// for reconciliation.
type EventStore interface {
	InsertDownload(ctx context.Context, e *models.DownloadEvent) error
	InsertView(ctx context.Context, e *models.ViewEvent) error
	CountDownloads(ctx context.Context, materialID string) (int64, error)
	CountViews(ctx context.Context, materialID string) (int64, error)
}

// CacheInvalidator drops derived cache entries once a counter moves.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// InteractionMeta carries the optional request attribution recorded with
// each event row.
type InteractionMeta struct {
	ProfileID *string
	IPAddress string
	UserAgent string
}

type InteractionService interface {
	// RecordDownload logs the event, bumps the counter and returns the file
	// URL for the client to open. The log row is the durable record: if it
	// cannot be written the counter is not touched. A failed counter bump
	// after a logged event is tolerated drift.
	RecordDownload(ctx context.Context, materialID string, meta InteractionMeta) (string, error)
	// RecordView is the view counterpart. Same ordering, no return payload.
	RecordView(ctx context.Context, materialID string, meta InteractionMeta) error
	// ReconcileCounters rewrites the material's download/view counters from
	// the event logs, repairing drift left behind by failed bumps.
	ReconcileCounters(ctx context.Context, materialID string) error
}

type interactionService struct {
	materials InteractionMaterialStore
	events    EventStore
	cache     CacheInvalidator
	publisher ChangePublisher
	logger    *slog.Logger
}

func NewInteractionService(
	materials InteractionMaterialStore,
	events EventStore,
	cacheStore CacheInvalidator,
	publisher ChangePublisher,
	logger *slog.Logger,
) InteractionService {
	return &interactionService{
		materials: materials,
		events:    events,
		cache:     cacheStore,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *interactionService) RecordDownload(ctx context.Context, materialID string, meta InteractionMeta) (string, error) {
	m, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMaterialNotFound
		}
		return "", err
	}

	event := &models.DownloadEvent{
		MaterialID: materialID,
		ProfileID:  meta.ProfileID,
		IPAddress:  strOrNil(meta.IPAddress),
		UserAgent:  strOrNil(meta.UserAgent),
	}
	if err := s.events.InsertDownload(ctx, event); err != nil {
		return "", err
	}

	if err := s.materials.IncrementDownloads(ctx, materialID); err != nil {
		// Counter drift is recoverable from the event log.
		s.logger.Warn("downloads counter bump failed", "material_id", materialID, "error", err)
	} else {
		s.dropStatsCache(ctx)
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.TableMaterials, realtime.ActionUpdate, materialID)
	}
	return m.FileURL, nil
}

func (s *interactionService) RecordView(ctx context.Context, materialID string, meta InteractionMeta) error {
	if _, err := s.materials.GetByID(ctx, materialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	event := &models.ViewEvent{
		MaterialID: materialID,
		ProfileID:  meta.ProfileID,
		IPAddress:  strOrNil(meta.IPAddress),
		UserAgent:  strOrNil(meta.UserAgent),
	}
	if err := s.events.InsertView(ctx, event); err != nil {
		return err
	}

	if err := s.materials.IncrementViews(ctx, materialID); err != nil {
		s.logger.Warn("views counter bump failed", "material_id", materialID, "error", err)
	} else {
		s.dropStatsCache(ctx)
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.TableMaterials, realtime.ActionUpdate, materialID)
	}
	return nil
}

func (s *interactionService) ReconcileCounters(ctx context.Context, materialID string) error {
	if _, err := s.materials.GetByID(ctx, materialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	downloads, err := s.events.CountDownloads(ctx, materialID)
	if err != nil {
		return fmt.Errorf("count download events: %w", err)
	}
	views, err := s.events.CountViews(ctx, materialID)
	if err != nil {
		return fmt.Errorf("count view events: %w", err)
	}

	if err := s.materials.SetInteractionCounts(ctx, materialID, downloads, views); err != nil {
		return err
	}

	s.dropStatsCache(ctx)
	if s.publisher != nil {
		s.publisher.Publish(realtime.TableMaterials, realtime.ActionUpdate, materialID)
	}
	return nil
}

// dropStatsCache evicts the cached stats aggregate after a counter change so
// the next read recomputes it.
func (s *interactionService) dropStatsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.KeyStats); err != nil {
		s.logger.Warn("stats cache invalidation failed", "error", err)
	}
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
