// services/bidding.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitterbid-backend/models"
	"sitterbid-backend/utils"
)

var (
	ErrMissingField      = errors.New("required field missing")
	ErrInvalidRange      = errors.New("start time must be before end time")
	ErrNoAvailability    = errors.New("no availability on this date")
	ErrAllSlotsConfirmed = errors.New("all slots on this date are already booked")
	ErrMinimumRaised     = errors.New("the minimum bid has been raised, please retry")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidState      = errors.New("booking is not in the expected state")
	ErrAlreadyResolved   = errors.New("another bid for this window was already resolved")
	ErrWindowConfirmed   = errors.New("a confirmed booking already covers this window")
)

// BelowMinimumError carries the floor the rejected bid failed to clear.
type BelowMinimumError struct {
	Minimum float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("bid is below the minimum of %.2f/hr", e.Minimum)
}

// BidService owns the availability/bid ledger and its state transitions.
type BidService struct {
	db *gorm.DB
}

func NewBidService(db *gorm.DB) *BidService {
	return &BidService{db: db}
}

// ─── Pure day-snapshot computations ─────────────────────────

func statusIn(status string, statuses []string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// OverlappingBids returns the bids whose window intersects [start, end)
// and whose status is in the given set.
func OverlappingBids(bids []models.Booking, start, end int, statuses ...string) []models.Booking {
	var out []models.Booking
	for _, b := range bids {
		if statusIn(b.Status, statuses) && b.OverlapsRange(start, end) {
			out = append(out, b)
		}
	}
	return out
}

// HighestBid returns the top bid amount among overlapping bids with a
// status in the set, or nil when none compete.
func HighestBid(bids []models.Booking, start, end int, statuses ...string) *float64 {
	var high *float64
	for _, b := range OverlappingBids(bids, start, end, statuses...) {
		amount := b.BidAmount
		if high == nil || amount > *high {
			high = &amount
		}
	}
	return high
}

// IsSlotConfirmed reports whether any confirmed booking overlaps the slot.
// Pending bids compete for time; only confirmed ones block it.
func IsSlotConfirmed(slot models.AvailabilitySlot, bids []models.Booking) bool {
	start, err := utils.TimeToMinutes(slot.StartTime)
	if err != nil {
		return false
	}
	end, err := utils.TimeToMinutes(slot.EndTime)
	if err != nil {
		return false
	}
	return len(OverlappingBids(bids, start, end, models.StatusConfirmed)) > 0
}

// AllSlotsConfirmed reports whether every slot on the date is already
// blocked by a confirmed booking. False when there are no slots at all.
func AllSlotsConfirmed(slots []models.AvailabilitySlot, bids []models.Booking) bool {
	if len(slots) == 0 {
		return false
	}
	for _, slot := range slots {
		if !IsSlotConfirmed(slot, bids) {
			return false
		}
	}
	return true
}

// PendingBidCount counts competing pending bids on a slot.
func PendingBidCount(slot models.AvailabilitySlot, bids []models.Booking) int {
	start, err := utils.TimeToMinutes(slot.StartTime)
	if err != nil {
		return 0
	}
	end, err := utils.TimeToMinutes(slot.EndTime)
	if err != nil {
		return 0
	}
	return len(OverlappingBids(bids, start, end, models.StatusPending))
}

// SlotSummary decorates a slot with its live bidding state for the
// public calendar: how many pending bids compete, the top bid across
// the window, and whether a confirmed booking already blocks it.
type SlotSummary struct {
	models.AvailabilitySlot
	BidCount   int      `json:"bid_count"`
	HighestBid *float64 `json:"highest_bid"`
	IsBooked   bool     `json:"is_booked"`
}

// SummarizeSlots builds the calendar view of each slot from the bids in
// the same range.
func SummarizeSlots(slots []models.AvailabilitySlot, bids []models.Booking) []SlotSummary {
	byDate := make(map[string][]models.Booking)
	for _, b := range bids {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	out := make([]SlotSummary, 0, len(slots))
	for _, slot := range slots {
		dayBids := byDate[slot.Date]
		summary := SlotSummary{AvailabilitySlot: slot}
		summary.BidCount = PendingBidCount(slot, dayBids)
		summary.IsBooked = IsSlotConfirmed(slot, dayBids)
		if start, err := utils.TimeToMinutes(slot.StartTime); err == nil {
			if end, err := utils.TimeToMinutes(slot.EndTime); err == nil {
				summary.HighestBid = HighestBid(dayBids, start, end,
					models.StatusPending, models.StatusConfirmed)
			}
		}
		out = append(out, summary)
	}
	return out
}

// NextMinimumAbove returns the lowest acceptable bid strictly above the
// given amount, rounded up to the nearest half unit.
func NextMinimumAbove(amount float64) float64 {
	return math.Ceil((amount+0.5)*2) / 2
}

// EffectiveMinimum computes the floor a new bid over [start, end) must
// meet. With no competing pending bids it is the slot's minimum rate;
// otherwise it sits strictly above the current top pending bid.
//
// A slot containing the whole range sets the base rate. A range spanning
// several slots takes the maximum of the overlapped minimums; a range
// touching no slot falls back to the date's lowest active minimum, then 0.
func EffectiveMinimum(slots []models.AvailabilitySlot, bids []models.Booking, start, end int) float64 {
	base := 0.0
	containing := false
	overlapping := false
	overlapMax := 0.0
	dateMin := 0.0
	haveDateMin := false

	for _, s := range slots {
		if !s.IsActive {
			continue
		}
		sStart, err := utils.TimeToMinutes(s.StartTime)
		if err != nil {
			continue
		}
		sEnd, err := utils.TimeToMinutes(s.EndTime)
		if err != nil {
			continue
		}
		if !haveDateMin || s.MinRate < dateMin {
			dateMin = s.MinRate
			haveDateMin = true
		}
		if sStart <= start && sEnd >= end {
			if !containing || s.MinRate > base {
				base = s.MinRate
			}
			containing = true
		} else if utils.Overlaps(sStart, sEnd, start, end) {
			if !overlapping || s.MinRate > overlapMax {
				overlapMax = s.MinRate
			}
			overlapping = true
		}
	}

	switch {
	case containing:
		// base already set
	case overlapping:
		base = overlapMax
	case haveDateMin:
		base = dateMin
	}

	highPending := HighestBid(bids, start, end, models.StatusPending)
	if highPending == nil {
		return base
	}
	return NextMinimumAbove(*highPending)
}

// ─── Reads ──────────────────────────────────────────────────

// ListSlots returns active slots between two date keys, ordered.
func (s *BidService) ListSlots(startDate, endDate string) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := s.db.
		Where("date >= ? AND date <= ? AND is_active = ?", startDate, endDate, true).
		Order("date").Order("start_time").
		Find(&slots).Error
	return slots, err
}

// ListDaySlots returns the active slots on a single date.
func (s *BidService) ListDaySlots(date string) ([]models.AvailabilitySlot, error) {
	return s.ListSlots(date, date)
}

// ListBids returns all bids (any status) between two date keys.
func (s *BidService) ListBids(startDate, endDate string) ([]models.Booking, error) {
	var bids []models.Booking
	err := s.db.
		Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date").Order("start_time").
		Find(&bids).Error
	return bids, err
}

// ListDayBids returns all bids on a single date.
func (s *BidService) ListDayBids(date string) ([]models.Booking, error) {
	return s.ListBids(date, date)
}

// ListAllBids returns every bid, newest dates first.
func (s *BidService) ListAllBids() ([]models.Booking, error) {
	var bids []models.Booking
	err := s.db.
		Order("date DESC").Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

// ListBidsByEmail returns a customer's bids for the status lookup.
func (s *BidService) ListBidsByEmail(email string) ([]models.Booking, error) {
	var bids []models.Booking
	err := s.db.
		Where("LOWER(customer_email) = LOWER(?)", strings.TrimSpace(email)).
		Order("date DESC").Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

// CurrentMinimum computes the effective minimum for a candidate window
// outside any transaction, for the booking form.
func (s *BidService) CurrentMinimum(date string, start, end int) (float64, error) {
	slots, err := s.ListDaySlots(date)
	if err != nil {
		return 0, err
	}
	bids, err := s.ListDayBids(date)
	if err != nil {
		return 0, err
	}
	return EffectiveMinimum(slots, bids, start, end), nil
}

// ─── Submission ─────────────────────────────────────────────

// BidInput is a raw customer submission before validation.
type BidInput struct {
	Date          string
	StartTime     string
	EndTime       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	NumChildren   int
	BidAmount     float64
	Notes         string
	ReferralCode  string

	// ExpectedMinimum is the floor the client saw when it composed the
	// bid. A bid that clears it but no longer clears the current floor
	// lost a race and gets ErrMinimumRaised instead of a plain rejection.
	ExpectedMinimum *float64
}

// SubmitBid validates and inserts a pending bid. The effective minimum
// is recomputed against locked day rows at commit time, not trusted from
// the client's snapshot. The returned ReferralUsageError, if any, is a
// soft failure: the bid has been created regardless.
func (s *BidService) SubmitBid(input BidInput, referrals *ReferralService) (*models.Booking, *ReferralUsageError, error) {
	if strings.TrimSpace(input.CustomerName) == "" ||
		input.Date == "" || input.StartTime == "" || input.EndTime == "" {
		return nil, nil, ErrMissingField
	}
	email := strings.TrimSpace(input.CustomerEmail)
	phone := strings.TrimSpace(input.CustomerPhone)
	if email == "" && phone == "" {
		return nil, nil, ErrMissingField
	}

	start, err := utils.TimeToMinutes(input.StartTime)
	if err != nil {
		return nil, nil, ErrInvalidRange
	}
	end, err := utils.TimeToMinutes(input.EndTime)
	if err != nil {
		return nil, nil, ErrInvalidRange
	}
	if start >= end {
		return nil, nil, ErrInvalidRange
	}

	numChildren := input.NumChildren
	if numChildren < 1 {
		numChildren = 1
	}

	var code *string
	if normalized := NormalizeCode(input.ReferralCode); normalized != "" {
		code = &normalized
	}

	booking := &models.Booking{
		Date:         input.Date,
		StartTime:    utils.MinutesToTime(start),
		EndTime:      utils.MinutesToTime(end),
		CustomerName: strings.TrimSpace(input.CustomerName),
		NumChildren:  numChildren,
		BidAmount:    input.BidAmount,
		ReferralCode: code,
		Status:       models.StatusPending,
	}
	if email != "" {
		booking.CustomerEmail = &email
	}
	if phone != "" {
		booking.CustomerPhone = &phone
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		booking.Notes = &notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var slots []models.AvailabilitySlot
		if err := tx.
			Where("date = ? AND is_active = ?", input.Date, true).
			Find(&slots).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return ErrNoAvailability
		}

		// Lock the day's bids so the floor cannot move under us.
		var bids []models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ?", input.Date).
			Find(&bids).Error; err != nil {
			return err
		}

		if AllSlotsConfirmed(slots, bids) {
			return ErrAllSlotsConfirmed
		}

		minimum := EffectiveMinimum(slots, bids, start, end)
		if input.BidAmount < minimum {
			if input.ExpectedMinimum != nil && input.BidAmount >= *input.ExpectedMinimum {
				return ErrMinimumRaised
			}
			return &BelowMinimumError{Minimum: minimum}
		}

		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, nil, err
	}

	// Referral accounting is best-effort: a failed increment never undoes
	// the booking.
	var soft *ReferralUsageError
	if code != nil && referrals != nil {
		if _, lookupErr := referrals.Lookup(*code); lookupErr == nil {
			soft = referrals.RecordUsage(*code)
		}
	}

	return booking, soft, nil
}

// ─── Admin transitions ──────────────────────────────────────

// AcceptBid promotes a pending bid to confirmed and declines every other
// pending bid on the same date whose window overlaps it, in one
// transaction. The version guard makes concurrent accepts on the same
// window lose with ErrAlreadyResolved instead of double-confirming.
func (s *BidService) AcceptBid(id uuid.UUID) (*models.Booking, error) {
	var accepted models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&accepted, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if accepted.Status != models.StatusPending {
			return ErrInvalidState
		}

		// Two confirmed bookings must never overlap.
		var confirmed []models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND status = ?", accepted.Date, models.StatusConfirmed).
			Find(&confirmed).Error; err != nil {
			return err
		}
		for i := range confirmed {
			if confirmed[i].OverlapsWith(&accepted) {
				return ErrWindowConfirmed
			}
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND version = ?", id, models.StatusPending, accepted.Version).
			Updates(map[string]interface{}{
				"status":  models.StatusConfirmed,
				"version": gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		accepted.Status = models.StatusConfirmed
		accepted.Version++

		return s.cascadeDecline(tx, &accepted)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Accepted bid %s on %s %s-%s at %.2f/hr",
		accepted.ID, accepted.Date, accepted.StartTime, accepted.EndTime, accepted.BidAmount)
	return &accepted, nil
}

// cascadeDecline declines the pending bids overlapping the accepted one.
// Only pending rows are touched, so a retry is a no-op.
func (s *BidService) cascadeDecline(tx *gorm.DB, accepted *models.Booking) error {
	var peers []models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("date = ? AND status = ? AND id <> ?", accepted.Date, models.StatusPending, accepted.ID).
		Find(&peers).Error; err != nil {
		return err
	}

	ids := CascadeDeclineTargets(peers, accepted)
	if len(ids) == 0 {
		return nil
	}

	return tx.Model(&models.Booking{}).
		Where("id IN ? AND status = ?", ids, models.StatusPending).
		Updates(map[string]interface{}{
			"status":  models.StatusDeclined,
			"version": gorm.Expr("version + 1"),
		}).Error
}

// CascadeDeclineTargets selects which competing pending bids an accepted
// bid knocks out.
func CascadeDeclineTargets(peers []models.Booking, accepted *models.Booking) []uuid.UUID {
	var ids []uuid.UUID
	for i := range peers {
		p := &peers[i]
		if p.ID == accepted.ID || p.Status != models.StatusPending {
			continue
		}
		if p.OverlapsWith(accepted) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// DeclineBid rejects a single pending bid.
func (s *BidService) DeclineBid(id uuid.UUID) (*models.Booking, error) {
	return s.resolvePending(id, models.StatusDeclined)
}

// WithdrawBid is the customer-initiated equivalent of a decline, allowed
// only while the bid is still pending. No fee applies.
func (s *BidService) WithdrawBid(id uuid.UUID) (*models.Booking, error) {
	return s.resolvePending(id, models.StatusCancelled)
}

func (s *BidService) resolvePending(id uuid.UUID, target string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.Status != models.StatusPending {
			return ErrInvalidState
		}

		updates := map[string]interface{}{
			"status":  target,
			"version": gorm.Expr("version + 1"),
		}
		var cancelledAt *time.Time
		if target == models.StatusCancelled {
			now := time.Now()
			cancelledAt = &now
			updates["cancelled_at"] = now
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND version = ?", id, models.StatusPending, booking.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		booking.Status = target
		booking.Version++
		booking.CancelledAt = cancelledAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
