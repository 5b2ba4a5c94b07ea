package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/gorm"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/dto"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/repository"
	"github.com/naamyuvraj/opensource-study-materials/internal/realtime"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrRatingNotFound = errors.New("rating not found")
)

// RatingAggregateStore writes the derived rating fields onto the material row.
type RatingAggregateStore interface {
	GetByID(ctx context.Context, id string) (*models.Material, error)
	SetRatingAggregate(ctx context.Context, id string, avg float64, count int64) error
}

type RatingService interface {
	// SubmitRating records or replaces the caller's rating for a material and
	// recomputes the denormalized average (one decimal place) and count.
	SubmitRating(ctx context.Context, profileID, materialID string, value int, review *string) (*models.Rating, error)
	DeleteRating(ctx context.Context, profileID, materialID string) error
	GetUserRating(ctx context.Context, profileID, materialID string) (*models.Rating, error)
	GetMaterialRatings(ctx context.Context, materialID string, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	// GetAverage reads the live mean (one decimal place) and count from the
	// rating rows, bypassing the denormalized copy on the material.
	GetAverage(ctx context.Context, materialID string) (float64, int64, error)
}

type ratingService struct {
	ratings   repository.RatingRepository
	materials RatingAggregateStore
	publisher ChangePublisher
	logger    *slog.Logger
}

func NewRatingService(
	ratings repository.RatingRepository,
	materials RatingAggregateStore,
	publisher ChangePublisher,
	logger *slog.Logger,
) RatingService {
	return &ratingService{
		ratings:   ratings,
		materials: materials,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *ratingService) SubmitRating(ctx context.Context, profileID, materialID string, value int, review *string) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.materials.GetByID(ctx, materialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	// One rating per (profile, material): a resubmission replaces the value.
	existing, err := s.ratings.GetByProfileAndMaterial(profileID, materialID)
	switch {
	case err == nil:
		existing.Rating = value
		existing.Review = review
		if err := s.ratings.Update(existing); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = &models.Rating{
			ProfileID:  profileID,
			MaterialID: materialID,
			Rating:     value,
			Review:     review,
		}
		if err := s.ratings.Create(existing); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// A successful return promises the material row reflects the full rating
	// set, so a failed recompute fails the call. The rating row stays; a
	// retry re-runs the recompute.
	if err := s.recomputeAggregate(ctx, materialID); err != nil {
		return nil, fmt.Errorf("recompute rating aggregate: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.TableMaterials, realtime.ActionUpdate, materialID)
	}
	return existing, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, profileID, materialID string) error {
	if err := s.ratings.Delete(profileID, materialID); err != nil {
		return ErrRatingNotFound
	}

	if err := s.recomputeAggregate(ctx, materialID); err != nil {
		return fmt.Errorf("recompute rating aggregate: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.TableMaterials, realtime.ActionUpdate, materialID)
	}
	return nil
}

func (s *ratingService) GetUserRating(ctx context.Context, profileID, materialID string) (*models.Rating, error) {
	rating, err := s.ratings.GetByProfileAndMaterial(profileID, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) GetMaterialRatings(ctx context.Context, materialID string, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ratings, total, err := s.ratings.GetByMaterial(materialID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return dto.NewPaginatedRatingResponse(responses, int(total), page, pageSize), nil
}

func (s *ratingService) GetAverage(ctx context.Context, materialID string) (float64, int64, error) {
	avg, err := s.ratings.CalculateAverageRating(materialID)
	if err != nil {
		return 0, 0, err
	}
	count, err := s.ratings.CountRatings(materialID)
	if err != nil {
		return 0, 0, err
	}
	return math.Round(avg*10) / 10, count, nil
}

// recomputeAggregate reads the rating rows back and writes the mean, rounded
// to one decimal place, and count onto the material.
func (s *ratingService) recomputeAggregate(ctx context.Context, materialID string) error {
	avg, err := s.ratings.CalculateAverageRating(materialID)
	if err != nil {
		return err
	}
	count, err := s.ratings.CountRatings(materialID)
	if err != nil {
		return err
	}
	rounded := math.Round(avg*10) / 10
	return s.materials.SetRatingAggregate(ctx, materialID, rounded, count)
}
