package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sitterbid-backend/utils"
)

// Booking statuses. Transitions are one-directional:
// pending -> confirmed | declined | cancelled, confirmed -> cancelled.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
)

// Cancellation tiers persisted when a booking is cancelled.
const (
	TierFree  = "free"
	TierHalf  = "50%"
	TierFull  = "full"
	TierAdmin = "admin"
)

// Booking is a parent's bid for a date/time window. Bids are never
// hard-deleted; every state they pass through stays queryable.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Date      string `gorm:"type:date;index;not null" json:"date"`
	StartTime string `gorm:"type:time;not null" json:"start_time"`
	EndTime   string `gorm:"type:time;not null" json:"end_time"`

	CustomerName  string  `gorm:"not null" json:"customer_name"`
	CustomerEmail *string `gorm:"index" json:"customer_email"`
	CustomerPhone *string `json:"customer_phone"`
	NumChildren   int     `gorm:"default:1" json:"num_children"`

	BidAmount    float64 `gorm:"type:decimal(10,2);not null" json:"bid_amount"`
	Notes        *string `gorm:"type:text" json:"notes"`
	ReferralCode *string `json:"referral_code"`

	Status string `gorm:"type:varchar(20);index;default:'pending'" json:"status"`

	// Version guards the accept path against two admins resolving the
	// same window at once.
	Version int `gorm:"default:0" json:"-"`

	CancellationTier  *string    `gorm:"type:varchar(10)" json:"cancellation_tier"`
	CancellationFee   *float64   `gorm:"type:decimal(10,2)" json:"cancellation_fee"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	AdminCancelReason *string    `gorm:"type:text" json:"admin_cancel_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// StartMinutes returns the bid's start as minutes since midnight.
func (b *Booking) StartMinutes() int {
	m, _ := utils.TimeToMinutes(b.StartTime)
	return m
}

// EndMinutes returns the bid's end as minutes since midnight.
func (b *Booking) EndMinutes() int {
	m, _ := utils.TimeToMinutes(b.EndTime)
	return m
}

// DurationHours is the booked window length in hours.
func (b *Booking) DurationHours() float64 {
	return float64(b.EndMinutes()-b.StartMinutes()) / 60.0
}

// TotalValue is the full price of the booking at the bid rate.
func (b *Booking) TotalValue() float64 {
	return b.BidAmount * b.DurationHours()
}

// OverlapsRange reports whether the bid's window intersects [start, end)
// in minutes since midnight.
func (b *Booking) OverlapsRange(start, end int) bool {
	return utils.Overlaps(b.StartMinutes(), b.EndMinutes(), start, end)
}

// OverlapsWith reports whether two bids on the same date compete for time.
func (b *Booking) OverlapsWith(other *Booking) bool {
	if b.Date != other.Date {
		return false
	}
	return b.OverlapsRange(other.StartMinutes(), other.EndMinutes())
}

// IsResolved reports whether the bid has left the pending state.
func (b *Booking) IsResolved() bool {
	return b.Status != StatusPending
}

// StartInstant combines date and start time in server-local civil time.
func (b *Booking) StartInstant() (time.Time, error) {
	return utils.CombineDateTime(b.Date, b.StartTime)
}
