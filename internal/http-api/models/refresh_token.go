package models

import "time"

type RefreshToken struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProfileID string    `json:"profile_id" gorm:"type:uuid;not null;index"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
