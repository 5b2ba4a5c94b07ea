package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string  `json:"name" gorm:"unique;not null"`
	Description *string `json:"description,omitempty"`
	Icon        string  `json:"icon" gorm:"default:'📚'"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;size:200"`

	// Display metadata only. Bumped best-effort on material create/delete,
	// never recomputed, so it can drift from the true count.
	MaterialCount int64 `json:"material_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (Category) TableName() string {
	return "categories"
}
