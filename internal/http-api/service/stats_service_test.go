package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naamyuvraj/opensource-study-materials/internal/fallback"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

// MockStatsMaterialStore mocks the StatsMaterialStore interface
type MockStatsMaterialStore struct {
	mock.Mock
}

func (m *MockStatsMaterialStore) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsMaterialStore) SumDownloads(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsMaterialStore) SumViews(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileCounter mocks the ProfileCounter interface
type MockProfileCounter struct {
	mock.Mock
}

func (m *MockProfileCounter) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func TestGetStats_AggregatesFourQueries(t *testing.T) {
	materials := new(MockStatsMaterialStore)
	profiles := new(MockProfileCounter)

	materials.On("CountByStatus", mock.Anything, models.StatusActive).Return(int64(12), nil)
	materials.On("SumDownloads", mock.Anything, models.StatusActive).Return(int64(3400), nil)
	materials.On("SumViews", mock.Anything, models.StatusActive).Return(int64(9100), nil)
	profiles.On("Count").Return(int64(56), nil)

	svc := NewStatsService(materials, profiles, nil, testLogger())

	stats, degraded, err := svc.GetStats(context.Background())

	assert.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, int64(12), stats.TotalMaterials)
	assert.Equal(t, int64(3400), stats.TotalDownloads)
	assert.Equal(t, int64(9100), stats.TotalViews)
	assert.Equal(t, int64(56), stats.TotalUsers)
}

func TestGetStats_PartialFailureZeroesOnlyThatField(t *testing.T) {
	materials := new(MockStatsMaterialStore)
	profiles := new(MockProfileCounter)

	materials.On("CountByStatus", mock.Anything, models.StatusActive).Return(int64(12), nil)
	materials.On("SumDownloads", mock.Anything, models.StatusActive).Return(int64(0), errors.New("timeout"))
	materials.On("SumViews", mock.Anything, models.StatusActive).Return(int64(9100), nil)
	profiles.On("Count").Return(int64(56), nil)

	svc := NewStatsService(materials, profiles, nil, testLogger())

	stats, degraded, err := svc.GetStats(context.Background())

	assert.NoError(t, err)
	assert.False(t, degraded, "one failed query does not trip the fallback")
	assert.Equal(t, int64(0), stats.TotalDownloads)
	assert.Equal(t, int64(12), stats.TotalMaterials)
}

func TestGetStats_TotalBlackoutServesFallback(t *testing.T) {
	materials := new(MockStatsMaterialStore)
	profiles := new(MockProfileCounter)

	dbErr := errors.New("connection refused")
	materials.On("CountByStatus", mock.Anything, models.StatusActive).Return(int64(0), dbErr)
	materials.On("SumDownloads", mock.Anything, models.StatusActive).Return(int64(0), dbErr)
	materials.On("SumViews", mock.Anything, models.StatusActive).Return(int64(0), dbErr)
	profiles.On("Count").Return(int64(0), dbErr)

	svc := NewStatsService(materials, profiles, nil, testLogger())

	stats, degraded, err := svc.GetStats(context.Background())

	assert.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, fallback.Stats(), stats)
}
