package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/realtime"
)

// MockRatingRepository mocks the repository.RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(profileID, materialID string) error {
	args := m.Called(profileID, materialID)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByProfileAndMaterial(profileID, materialID string) (*models.Rating, error) {
	args := m.Called(profileID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByMaterial(materialID string, page, pageSize int) ([]models.Rating, int64, error) {
	args := m.Called(materialID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Rating), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) CalculateAverageRating(materialID string) (float64, error) {
	args := m.Called(materialID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRatingRepository) CountRatings(materialID string) (int64, error) {
	args := m.Called(materialID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRatingAggregateStore mocks the RatingAggregateStore interface
type MockRatingAggregateStore struct {
	mock.Mock
}

func (m *MockRatingAggregateStore) GetByID(ctx context.Context, id string) (*models.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockRatingAggregateStore) SetRatingAggregate(ctx context.Context, id string, avg float64, count int64) error {
	args := m.Called(ctx, id, avg, count)
	return args.Error(0)
}

func TestSubmitRating_NewRatingRecomputesAggregate(t *testing.T) {
	ratings := new(MockRatingRepository)
	materials := new(MockRatingAggregateStore)
	publisher := new(MockPublisher)

	materials.On("GetByID", mock.Anything, "m-1").Return(&models.Material{ID: "m-1"}, nil)
	ratings.On("GetByProfileAndMaterial", "p-1", "m-1").Return(nil, gorm.ErrRecordNotFound)
	ratings.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil)
	// 4, 4, 5 -> mean 4.333... stored as 4.3
	ratings.On("CalculateAverageRating", "m-1").Return(4.333333333333333, nil)
	ratings.On("CountRatings", "m-1").Return(int64(3), nil)
	materials.On("SetRatingAggregate", mock.Anything, "m-1", 4.3, int64(3)).Return(nil)
	publisher.On("Publish", realtime.TableMaterials, realtime.ActionUpdate, "m-1").Return()

	svc := NewRatingService(ratings, materials, publisher, testLogger())

	rating, err := svc.SubmitRating(context.Background(), "p-1", "m-1", 5, nil)

	assert.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)
	materials.AssertExpectations(t)
	ratings.AssertExpectations(t)
}

func TestSubmitRating_ResubmissionReplaces(t *testing.T) {
	ratings := new(MockRatingRepository)
	materials := new(MockRatingAggregateStore)

	materials.On("GetByID", mock.Anything, "m-1").Return(&models.Material{ID: "m-1"}, nil)
	existing := &models.Rating{ProfileID: "p-1", MaterialID: "m-1", Rating: 2}
	ratings.On("GetByProfileAndMaterial", "p-1", "m-1").Return(existing, nil)
	ratings.On("Update", mock.MatchedBy(func(r *models.Rating) bool {
		return r.Rating == 4
	})).Return(nil)
	ratings.On("CalculateAverageRating", "m-1").Return(4.0, nil)
	ratings.On("CountRatings", "m-1").Return(int64(1), nil)
	materials.On("SetRatingAggregate", mock.Anything, "m-1", 4.0, int64(1)).Return(nil)

	svc := NewRatingService(ratings, materials, nil, testLogger())

	rating, err := svc.SubmitRating(context.Background(), "p-1", "m-1", 4, nil)

	assert.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	ratings.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmitRating_RejectsOutOfRange(t *testing.T) {
	svc := NewRatingService(new(MockRatingRepository), new(MockRatingAggregateStore), nil, testLogger())

	for _, value := range []int{0, 6, -1} {
		_, err := svc.SubmitRating(context.Background(), "p-1", "m-1", value, nil)
		assert.ErrorIs(t, err, ErrInvalidRating, "value=%d", value)
	}
}

func TestSubmitRating_UnknownMaterial(t *testing.T) {
	materials := new(MockRatingAggregateStore)
	materials.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	svc := NewRatingService(new(MockRatingRepository), materials, nil, testLogger())

	_, err := svc.SubmitRating(context.Background(), "p-1", "missing", 3, nil)
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestDeleteRating_RecomputesAggregate(t *testing.T) {
	ratings := new(MockRatingRepository)
	materials := new(MockRatingAggregateStore)

	ratings.On("Delete", "p-1", "m-1").Return(nil)
	// Last rating gone: aggregate drops to zero.
	ratings.On("CalculateAverageRating", "m-1").Return(0.0, nil)
	ratings.On("CountRatings", "m-1").Return(int64(0), nil)
	materials.On("SetRatingAggregate", mock.Anything, "m-1", 0.0, int64(0)).Return(nil)

	svc := NewRatingService(ratings, materials, nil, testLogger())

	assert.NoError(t, svc.DeleteRating(context.Background(), "p-1", "m-1"))
	materials.AssertExpectations(t)
}

func TestSubmitRating_AggregateWriteFailureSurfaces(t *testing.T) {
	ratings := new(MockRatingRepository)
	materials := new(MockRatingAggregateStore)
	publisher := new(MockPublisher)

	materials.On("GetByID", mock.Anything, "m-1").Return(&models.Material{ID: "m-1"}, nil)
	ratings.On("GetByProfileAndMaterial", "p-1", "m-1").Return(nil, gorm.ErrRecordNotFound)
	ratings.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil)
	ratings.On("CalculateAverageRating", "m-1").Return(4.0, nil)
	ratings.On("CountRatings", "m-1").Return(int64(1), nil)
	materials.On("SetRatingAggregate", mock.Anything, "m-1", 4.0, int64(1)).
		Return(errors.New("connection reset"))

	svc := NewRatingService(ratings, materials, publisher, testLogger())

	_, err := svc.SubmitRating(context.Background(), "p-1", "m-1", 4, nil)

	// The material row must reflect the new rating before the call succeeds.
	assert.Error(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRating_AggregateWriteFailureSurfaces(t *testing.T) {
	ratings := new(MockRatingRepository)
	materials := new(MockRatingAggregateStore)

	ratings.On("Delete", "p-1", "m-1").Return(nil)
	ratings.On("CalculateAverageRating", "m-1").Return(0.0, nil)
	ratings.On("CountRatings", "m-1").Return(int64(0), nil)
	materials.On("SetRatingAggregate", mock.Anything, "m-1", 0.0, int64(0)).
		Return(errors.New("connection reset"))

	svc := NewRatingService(ratings, materials, nil, testLogger())

	assert.Error(t, svc.DeleteRating(context.Background(), "p-1", "m-1"))
}

func TestGetAverage_RoundsToOneDecimal(t *testing.T) {
	ratings := new(MockRatingRepository)
	ratings.On("CalculateAverageRating", "m-1").Return(3.666666666666667, nil)
	ratings.On("CountRatings", "m-1").Return(int64(6), nil)

	svc := NewRatingService(ratings, new(MockRatingAggregateStore), nil, testLogger())

	avg, count, err := svc.GetAverage(context.Background(), "m-1")

	assert.NoError(t, err)
	assert.Equal(t, 3.7, avg)
	assert.Equal(t, int64(6), count)
}

func TestGetMaterialRatings_Paginates(t *testing.T) {
	ratings := new(MockRatingRepository)
	ratings.On("GetByMaterial", "m-1", 1, 20).Return([]models.Rating{
		{ProfileID: "p-1", MaterialID: "m-1", Rating: 5, Profile: models.Profile{Email: "a@example.com"}},
		{ProfileID: "p-2", MaterialID: "m-1", Rating: 3, Profile: models.Profile{Email: "b@example.com"}},
	}, int64(2), nil)

	svc := NewRatingService(ratings, new(MockRatingAggregateStore), nil, testLogger())

	resp, err := svc.GetMaterialRatings(context.Background(), "m-1", 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "a@example.com", resp.Data[0].Email)
}
