package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is an admin-entered parent testimonial shown on the public site.
type Review struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ParentName string `gorm:"not null" json:"parent_name"`
	Rating     int    `gorm:"not null" json:"rating"` // 1-5
	ReviewText string `gorm:"type:text;not null" json:"review_text"`
	IsVisible  bool   `gorm:"default:true" json:"is_visible"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
