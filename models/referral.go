package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralCode is a shareable discount code. Codes are stored uppercase
// with whitespace stripped; lookups normalize input the same way.
type ReferralCode struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Code            string  `gorm:"uniqueIndex;size:32;not null" json:"referral_code"`
	ReferrerName    string  `gorm:"not null" json:"referrer_name"`
	ReferrerEmail   *string `json:"referrer_email"`
	DiscountPercent int     `gorm:"not null" json:"discount_percent"` // 1-50
	IsActive        bool    `gorm:"default:true" json:"is_active"`
	TimesUsed       int     `gorm:"default:0" json:"times_used"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ReferralCode) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
