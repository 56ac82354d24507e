package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilitySlot is an admin-defined window parents can bid on.
// Removed slots are deactivated rather than deleted so historic bookings
// keep a valid reference window.
type AvailabilitySlot struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Date      string  `gorm:"type:date;index;not null" json:"date"`       // YYYY-MM-DD
	StartTime string  `gorm:"type:time;not null" json:"start_time"`       // HH:MM:SS
	EndTime   string  `gorm:"type:time;not null" json:"end_time"`         // HH:MM:SS
	MinRate   float64 `gorm:"type:decimal(10,2);not null" json:"min_rate"`
	IsActive  bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *AvailabilitySlot) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
