package repository

import (
	"errors"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(rating *models.Rating) error
	Update(rating *models.Rating) error
	Delete(profileID, materialID string) error
	GetByProfileAndMaterial(profileID, materialID string) (*models.Rating, error)
	GetByMaterial(materialID string, page, pageSize int) ([]models.Rating, int64, error)
	CalculateAverageRating(materialID string) (float64, error)
	CountRatings(materialID string) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating
func (r *ratingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

// Update an existing rating
func (r *ratingRepository) Update(rating *models.Rating) error {
	return r.db.Save(rating).Error
}

// Delete a rating by profile and material
func (r *ratingRepository) Delete(profileID, materialID string) error {
	result := r.db.Where("profile_id = ? AND material_id = ?", profileID, materialID).Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("rating not found")
	}
	return nil
}

// GetByProfileAndMaterial retrieves a profile's rating for a specific material
func (r *ratingRepository) GetByProfileAndMaterial(profileID, materialID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("profile_id = ? AND material_id = ?", profileID, materialID).
		Preload("Profile").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByMaterial retrieves all ratings for a specific material with pagination
func (r *ratingRepository) GetByMaterial(materialID string, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.Model(&models.Rating{}).Where("material_id = ?", materialID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("material_id = ?", materialID).
		Preload("Profile").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error

	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

// CalculateAverageRating calculates the average rating for a material
func (r *ratingRepository) CalculateAverageRating(materialID string) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("material_id = ?", materialID).
		Scan(&avg).Error

	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

// CountRatings counts the total number of ratings for a material
func (r *ratingRepository) CountRatings(materialID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).Where("material_id = ?", materialID).Count(&count).Error
	return count, err
}
