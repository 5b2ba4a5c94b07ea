package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Material lifecycle states. Only active materials are visible on public views.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

type Material struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string  `json:"title" gorm:"not null;index"`
	Description *string `json:"description,omitempty"`

	CategoryID *string `json:"category_id,omitempty" gorm:"type:uuid;index"`
	// Category name is denormalized onto the row so listings never need a join.
	Category string `json:"category" gorm:"index"`

	FileURL  string  `json:"file_url" gorm:"not null"`
	ImageURL *string `json:"image_url,omitempty"`
	FileSize *int64  `json:"file_size,omitempty"`
	FileType *string `json:"file_type,omitempty"`

	// Denormalized counters. Downloads/views are bumped with a single
	// UPDATE expression; rating and rating_count are recomputed from the
	// ratings table and never authored directly.
	Downloads   int64   `json:"downloads" gorm:"not null;default:0"`
	Views       int64   `json:"views" gorm:"not null;default:0"`
	Rating      float64 `json:"rating" gorm:"type:decimal(2,1);not null;default:0"`
	RatingCount int64   `json:"rating_count" gorm:"not null;default:0"`

	Status string `json:"status" gorm:"not null;default:'pending';index"`

	Tags            *string `json:"tags,omitempty"`
	Author          *string `json:"author,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	Language        string  `json:"language" gorm:"not null;default:'English'"`
	PageCount       *int    `json:"page_count,omitempty"`
	UploadedBy      *string `json:"uploaded_by,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook to set UUID before creating a Material
func (m *Material) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (Material) TableName() string {
	return "materials"
}
