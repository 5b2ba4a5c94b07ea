package service

import (
	"context"
	"log/slog"

	"github.com/naamyuvraj/opensource-study-materials/internal/cache"
	"github.com/naamyuvraj/opensource-study-materials/internal/fallback"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

// StatsMaterialStore is the aggregate slice of the material repository.
type StatsMaterialStore interface {
	CountByStatus(ctx context.Context, status string) (int64, error)
	SumDownloads(ctx context.Context, status string) (int64, error)
	SumViews(ctx context.Context, status string) (int64, error)
}

// ProfileCounter is the slice of the profile repository the stats need.
type ProfileCounter interface {
	Count() (int64, error)
}

type StatsService interface {
	// GetStats returns the four public aggregates. Each number comes from an
	// independent query, so they may reflect slightly different instants. The
	// bool is the degraded flag: true means every query failed and the fixed
	// fallback aggregates were substituted.
	GetStats(ctx context.Context) (dto.StatsResponse, bool, error)
}

type statsService struct {
	materials StatsMaterialStore
	profiles  ProfileCounter
	cache     *cache.Store
	logger    *slog.Logger
}

func NewStatsService(
	materials StatsMaterialStore,
	profiles ProfileCounter,
	cacheStore *cache.Store,
	logger *slog.Logger,
) StatsService {
	return &statsService{
		materials: materials,
		profiles:  profiles,
		cache:     cacheStore,
		logger:    logger,
	}
}

func (s *statsService) GetStats(ctx context.Context) (dto.StatsResponse, bool, error) {
	var cached dto.StatsResponse
	if hit, err := s.cache.GetJSON(ctx, cache.KeyStats, &cached); err != nil {
		s.logger.Warn("stats cache read failed", "error", err)
	} else if hit {
		return cached, false, nil
	}

	var (
		stats    dto.StatsResponse
		failures int
	)

	// Only active materials count toward the public aggregates.
	if n, err := s.materials.CountByStatus(ctx, models.StatusActive); err != nil {
		s.logger.Error("stats material count failed", "error", err)
		failures++
	} else {
		stats.TotalMaterials = n
	}
	if n, err := s.materials.SumDownloads(ctx, models.StatusActive); err != nil {
		s.logger.Error("stats downloads sum failed", "error", err)
		failures++
	} else {
		stats.TotalDownloads = n
	}
	if n, err := s.materials.SumViews(ctx, models.StatusActive); err != nil {
		s.logger.Error("stats views sum failed", "error", err)
		failures++
	} else {
		stats.TotalViews = n
	}
	if n, err := s.profiles.Count(); err != nil {
		s.logger.Error("stats profile count failed", "error", err)
		failures++
	} else {
		stats.TotalUsers = n
	}

	// Total blackout: serve the fixed numbers rather than four zeroes.
	if failures == 4 {
		return fallback.Stats(), true, nil
	}

	// Partially-failed aggregates are served but not cached, so the next
	// read retries the failed queries.
	if failures == 0 {
		if err := s.cache.SetJSON(ctx, cache.KeyStats, stats); err != nil {
			s.logger.Warn("stats cache write failed", "error", err)
		}
	}
	return stats, false, nil
}
