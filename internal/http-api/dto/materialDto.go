package dto

import (
	"time"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
)

// CreateMaterialDTO used for POST /api/admin/materials
type CreateMaterialDTO struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description,omitempty"`
	CategoryID      string  `json:"category_id" binding:"required"`
	FileURL         string  `json:"file_url" binding:"required"`
	ImageURL        *string `json:"image_url,omitempty"`
	FileSize        *int64  `json:"file_size,omitempty"`
	FileType        *string `json:"file_type,omitempty"`
	Tags            *string `json:"tags,omitempty"`
	Author          *string `json:"author,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	Language        *string `json:"language,omitempty"`
	PageCount       *int    `json:"page_count,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// UpdateMaterialDTO used for PUT /api/admin/materials/:id (partial updates allowed)
type UpdateMaterialDTO struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	CategoryID      *string `json:"category_id,omitempty"`
	FileURL         *string `json:"file_url,omitempty"`
	ImageURL        *string `json:"image_url,omitempty"`
	FileSize        *int64  `json:"file_size,omitempty"`
	FileType        *string `json:"file_type,omitempty"`
	Tags            *string `json:"tags,omitempty"`
	Author          *string `json:"author,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	Language        *string `json:"language,omitempty"`
	PageCount       *int    `json:"page_count,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// MaterialResponse DTO for detail responses
type MaterialResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	CategoryID      *string   `json:"category_id,omitempty"`
	Category        string    `json:"category"`
	FileURL         string    `json:"file_url"`
	ImageURL        *string   `json:"image_url,omitempty"`
	FileSize        *int64    `json:"file_size,omitempty"`
	FileType        *string   `json:"file_type,omitempty"`
	Downloads       int64     `json:"downloads"`
	Views           int64     `json:"views"`
	Rating          float64   `json:"rating"`
	RatingCount     int64     `json:"rating_count"`
	Status          string    `json:"status"`
	Tags            *string   `json:"tags,omitempty"`
	Author          *string   `json:"author,omitempty"`
	Publisher       *string   `json:"publisher,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	ISBN            *string   `json:"isbn,omitempty"`
	Language        string    `json:"language"`
	PageCount       *int      `json:"page_count,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MaterialBasicResponse carries only the fields list cards render.
type MaterialBasicResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	FileURL     string    `json:"file_url"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Downloads   int64     `json:"downloads"`
	Views       int64     `json:"views"`
	Rating      float64   `json:"rating"`
	RatingCount int64     `json:"rating_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CatalogFilter captures the public/admin listing parameters.
// Status "" means no restriction (admin only); public handlers force "active".
type CatalogFilter struct {
	Status       string
	SearchText   string
	CategoryName string
	SortBy       string
}

// Converters
func (d CreateMaterialDTO) ToModel() models.Material {
	m := models.Material{
		Title:           d.Title,
		Description:     d.Description,
		FileURL:         d.FileURL,
		ImageURL:        d.ImageURL,
		FileSize:        d.FileSize,
		FileType:        d.FileType,
		Tags:            d.Tags,
		Author:          d.Author,
		Publisher:       d.Publisher,
		PublicationYear: d.PublicationYear,
		ISBN:            d.ISBN,
		PageCount:       d.PageCount,
	}
	if d.CategoryID != "" {
		id := d.CategoryID
		m.CategoryID = &id
	}
	if d.Language != nil {
		m.Language = *d.Language
	}
	if d.Status != nil {
		m.Status = *d.Status
	}
	return m
}

func (d UpdateMaterialDTO) ApplyTo(m *models.Material) {
	if d.Title != nil {
		m.Title = *d.Title
	}
	if d.Description != nil {
		m.Description = d.Description
	}
	if d.CategoryID != nil {
		m.CategoryID = d.CategoryID
	}
	if d.FileURL != nil {
		m.FileURL = *d.FileURL
	}
	if d.ImageURL != nil {
		m.ImageURL = d.ImageURL
	}
	if d.FileSize != nil {
		m.FileSize = d.FileSize
	}
	if d.FileType != nil {
		m.FileType = d.FileType
	}
	if d.Tags != nil {
		m.Tags = d.Tags
	}
	if d.Author != nil {
		m.Author = d.Author
	}
	if d.Publisher != nil {
		m.Publisher = d.Publisher
	}
	if d.PublicationYear != nil {
		m.PublicationYear = d.PublicationYear
	}
	if d.ISBN != nil {
		m.ISBN = d.ISBN
	}
	if d.Language != nil {
		m.Language = *d.Language
	}
	if d.PageCount != nil {
		m.PageCount = d.PageCount
	}
	if d.Status != nil {
		m.Status = *d.Status
	}
}

func FromModelToResponse(m models.Material) MaterialResponse {
	return MaterialResponse{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		CategoryID:      m.CategoryID,
		Category:        m.Category,
		FileURL:         m.FileURL,
		ImageURL:        m.ImageURL,
		FileSize:        m.FileSize,
		FileType:        m.FileType,
		Downloads:       m.Downloads,
		Views:           m.Views,
		Rating:          m.Rating,
		RatingCount:     m.RatingCount,
		Status:          m.Status,
		Tags:            m.Tags,
		Author:          m.Author,
		Publisher:       m.Publisher,
		PublicationYear: m.PublicationYear,
		ISBN:            m.ISBN,
		Language:        m.Language,
		PageCount:       m.PageCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromModelToBasicResponse(m models.Material) MaterialBasicResponse {
	return MaterialBasicResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		FileURL:     m.FileURL,
		ImageURL:    m.ImageURL,
		Downloads:   m.Downloads,
		Views:       m.Views,
		Rating:      m.Rating,
		RatingCount: m.RatingCount,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}
