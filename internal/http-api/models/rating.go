package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Rating struct {
	ID         string  `json:"id" gorm:"primaryKey;type:uuid"`
	ProfileID  string  `json:"profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_profile_material"`
	MaterialID string  `json:"material_id" gorm:"type:uuid;not null;uniqueIndex:idx_profile_material;index"`
	Rating     int     `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review     *string `json:"review,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Profile  Profile  `json:"profile,omitempty" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
	Material Material `json:"-" gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE;"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Rating) TableName() string {
	return "ratings"
}
