// services/cancellation.go
package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitterbid-backend/models"
)

// RoundCurrency rounds half-up to 2 decimal places, the currency
// convention the fee schedule is written in.
func RoundCurrency(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// CancellationTier computes the fee owed when a confirmed booking is
// cancelled with the given notice:
//
//	more than 24h  -> free
//	12h to 24h     -> half the booking value (both ends inclusive)
//	under 12h      -> full booking value (past start counts as no notice)
func CancellationTier(b *models.Booking, now time.Time) (string, float64, error) {
	start, err := b.StartInstant()
	if err != nil {
		return "", 0, err
	}
	hoursUntil := start.Sub(now).Hours()
	total := b.TotalValue()

	switch {
	case hoursUntil > 24:
		return models.TierFree, 0, nil
	case hoursUntil >= 12:
		return models.TierHalf, RoundCurrency(total * 0.5), nil
	default:
		return models.TierFull, RoundCurrency(total), nil
	}
}

// CancelBooking handles a customer cancellation. A pending bid is a free
// withdrawal with no tier computation; a confirmed booking gets the
// tiered fee. Declined and already-cancelled bookings cannot be
// cancelled again.
func (s *BidService) CancelBooking(id uuid.UUID, now time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
			"version":      gorm.Expr("version + 1"),
		}

		switch booking.Status {
		case models.StatusPending:
			// Withdrawal: no tier, no fee.
		case models.StatusConfirmed:
			tier, fee, err := CancellationTier(&booking, now)
			if err != nil {
				return err
			}
			updates["cancellation_tier"] = tier
			updates["cancellation_fee"] = fee
			booking.CancellationTier = &tier
			booking.CancellationFee = &fee
		default:
			return ErrInvalidState
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND version = ?", id, booking.Status, booking.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		booking.Status = models.StatusCancelled
		booking.CancelledAt = &now
		booking.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// AdminCancelBooking cancels on the sitter's behalf. The provider absorbs
// the cost of their own cancellations, so the fee is always zero
// whatever the notice period.
func (s *BidService) AdminCancelBooking(id uuid.UUID, reason string, now time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
			return ErrInvalidState
		}

		tier := models.TierAdmin
		fee := 0.0
		updates := map[string]interface{}{
			"status":            models.StatusCancelled,
			"cancellation_tier": tier,
			"cancellation_fee":  fee,
			"cancelled_at":      now,
			"version":           gorm.Expr("version + 1"),
		}
		if r := strings.TrimSpace(reason); r != "" {
			updates["admin_cancel_reason"] = r
			booking.AdminCancelReason = &r
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND version = ?", id, booking.Status, booking.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		booking.Status = models.StatusCancelled
		booking.CancellationTier = &tier
		booking.CancellationFee = &fee
		booking.CancelledAt = &now
		booking.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
