package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DownloadEvent is an append-only log row; one insert per download action.
// Rows are removed with their material (cascade) rather than orphaned.
type DownloadEvent struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	MaterialID   string    `json:"material_id" gorm:"type:uuid;not null;index"`
	ProfileID    *string   `json:"profile_id,omitempty" gorm:"type:uuid;index"`
	IPAddress    *string   `json:"ip_address,omitempty"`
	UserAgent    *string   `json:"user_agent,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at" gorm:"autoCreateTime"`

	Material Material `json:"-" gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE;"`
}

func (e *DownloadEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

func (DownloadEvent) TableName() string {
	return "downloads"
}

// ViewEvent mirrors DownloadEvent for view actions.
type ViewEvent struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	MaterialID string    `json:"material_id" gorm:"type:uuid;not null;index"`
	ProfileID  *string   `json:"profile_id,omitempty" gorm:"type:uuid;index"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	ViewedAt   time.Time `json:"viewed_at" gorm:"autoCreateTime"`

	Material Material `json:"-" gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE;"`
}

func (e *ViewEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

func (ViewEvent) TableName() string {
	return "views"
}
