package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitterbid-backend/models"
)

func slot(start, end string, minRate float64) models.AvailabilitySlot {
	return models.AvailabilitySlot{
		ID:        uuid.New(),
		Date:      "2025-06-01",
		StartTime: start,
		EndTime:   end,
		MinRate:   minRate,
		IsActive:  true,
	}
}

func bid(start, end string, amount float64, status string) models.Booking {
	return models.Booking{
		ID:        uuid.New(),
		Date:      "2025-06-01",
		StartTime: start,
		EndTime:   end,
		BidAmount: amount,
		Status:    status,
	}
}

func TestNextMinimumAbove(t *testing.T) {
	assert.Equal(t, 15.5, NextMinimumAbove(15))
	assert.Equal(t, 16.0, NextMinimumAbove(15.5))
	assert.Equal(t, 15.5, NextMinimumAbove(14.75))
	assert.Equal(t, 13.0, NextMinimumAbove(12.49))
}

func TestHighestBid(t *testing.T) {
	bids := []models.Booking{
		bid("09:00:00", "12:00:00", 12, models.StatusPending),
		bid("10:00:00", "13:00:00", 15, models.StatusPending),
		bid("09:00:00", "11:00:00", 20, models.StatusDeclined),
	}

	high := HighestBid(bids, 540, 720, models.StatusPending)
	require.NotNil(t, high)
	assert.Equal(t, 15.0, *high)

	// declined bids never count
	high = HighestBid(bids, 540, 720, models.StatusPending, models.StatusConfirmed)
	require.NotNil(t, high)
	assert.Equal(t, 15.0, *high)

	// no competition outside the window
	assert.Nil(t, HighestBid(bids, 800, 900, models.StatusPending))
}

func TestIsSlotConfirmed(t *testing.T) {
	s := slot("09:00:00", "17:00:00", 12)

	pendingOnly := []models.Booking{bid("09:00:00", "12:00:00", 15, models.StatusPending)}
	assert.False(t, IsSlotConfirmed(s, pendingOnly))

	withConfirmed := append(pendingOnly, bid("10:00:00", "11:00:00", 14, models.StatusConfirmed))
	assert.True(t, IsSlotConfirmed(s, withConfirmed))

	// a confirmed booking ending exactly at the slot start does not block it
	before := []models.Booking{bid("07:00:00", "09:00:00", 14, models.StatusConfirmed)}
	assert.False(t, IsSlotConfirmed(s, before))
}

func TestEffectiveMinimum_NoPendingUsesSlotRate(t *testing.T) {
	slots := []models.AvailabilitySlot{slot("09:00:00", "17:00:00", 12)}

	minimum := EffectiveMinimum(slots, nil, 540, 720)
	assert.Equal(t, 12.0, minimum)
}

func TestEffectiveMinimum_TopsPendingBid(t *testing.T) {
	slots := []models.AvailabilitySlot{slot("09:00:00", "17:00:00", 12)}
	bids := []models.Booking{bid("09:00:00", "12:00:00", 15, models.StatusPending)}

	// a £15 pending bid raises the floor to £15.50
	assert.Equal(t, 15.5, EffectiveMinimum(slots, bids, 540, 720))
}

func TestEffectiveMinimum_MonotonicAndResets(t *testing.T) {
	slots := []models.AvailabilitySlot{slot("09:00:00", "17:00:00", 12)}

	var bids []models.Booking
	prev := EffectiveMinimum(slots, bids, 540, 720)
	for _, amount := range []float64{12, 13.5, 15, 15.5} {
		bids = append(bids, bid("09:00:00", "12:00:00", amount, models.StatusPending))
		cur := EffectiveMinimum(slots, bids, 540, 720)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}

	// resolving every pending bid resets the floor to the slot rate
	for i := range bids {
		bids[i].Status = models.StatusDeclined
	}
	assert.Equal(t, 12.0, EffectiveMinimum(slots, bids, 540, 720))
}

func TestEffectiveMinimum_SpanningSlotsTakesMax(t *testing.T) {
	slots := []models.AvailabilitySlot{
		slot("09:00:00", "13:00:00", 12),
		slot("13:00:00", "17:00:00", 14),
	}

	// candidate spans both slots: the stricter minimum wins
	assert.Equal(t, 14.0, EffectiveMinimum(slots, nil, 600, 900))

	// candidate inside one slot uses that slot's rate
	assert.Equal(t, 12.0, EffectiveMinimum(slots, nil, 540, 660))
}

func TestEffectiveMinimum_Fallbacks(t *testing.T) {
	slots := []models.AvailabilitySlot{
		slot("09:00:00", "12:00:00", 14),
		slot("14:00:00", "17:00:00", 10),
	}

	// candidate touches no slot: date-wide minimum applies
	assert.Equal(t, 10.0, EffectiveMinimum(slots, nil, 780, 840))

	// no slots at all
	assert.Equal(t, 0.0, EffectiveMinimum(nil, nil, 540, 720))

	// inactive slots are invisible
	inactive := slot("09:00:00", "17:00:00", 12)
	inactive.IsActive = false
	assert.Equal(t, 0.0, EffectiveMinimum([]models.AvailabilitySlot{inactive}, nil, 540, 720))
}

func TestCascadeDeclineTargets(t *testing.T) {
	accepted := bid("09:00:00", "12:00:00", 15, models.StatusConfirmed)

	overlapping := bid("11:00:00", "13:00:00", 14, models.StatusPending)
	adjacent := bid("12:00:00", "14:00:00", 13, models.StatusPending)
	alreadyDeclined := bid("09:00:00", "10:00:00", 12, models.StatusDeclined)

	peers := []models.Booking{overlapping, adjacent, alreadyDeclined, accepted}

	ids := CascadeDeclineTargets(peers, &accepted)
	require.Len(t, ids, 1)
	assert.Equal(t, overlapping.ID, ids[0])
}

func TestCascadeDeclineTargets_Idempotent(t *testing.T) {
	accepted := bid("09:00:00", "12:00:00", 15, models.StatusConfirmed)
	loser := bid("10:00:00", "11:00:00", 14, models.StatusPending)

	peers := []models.Booking{loser}
	first := CascadeDeclineTargets(peers, &accepted)
	require.Len(t, first, 1)

	// after the cascade ran, the loser is declined; a retry touches nothing
	peers[0].Status = models.StatusDeclined
	assert.Empty(t, CascadeDeclineTargets(peers, &accepted))
}

func TestPendingBidCount(t *testing.T) {
	s := slot("09:00:00", "17:00:00", 12)

	bids := []models.Booking{
		bid("09:00:00", "12:00:00", 12, models.StatusPending),
		bid("10:00:00", "13:00:00", 15, models.StatusPending),
		bid("11:00:00", "12:00:00", 20, models.StatusConfirmed),
		bid("09:00:00", "10:00:00", 13, models.StatusDeclined),
	}
	assert.Equal(t, 2, PendingBidCount(s, bids))

	// a pending bid on a different window does not count
	narrow := slot("14:00:00", "17:00:00", 12)
	assert.Equal(t, 0, PendingBidCount(narrow, bids))
}

func TestAllSlotsConfirmed(t *testing.T) {
	morning := slot("09:00:00", "12:00:00", 12)
	afternoon := slot("13:00:00", "17:00:00", 14)
	slots := []models.AvailabilitySlot{morning, afternoon}

	assert.False(t, AllSlotsConfirmed(slots, nil))

	oneBooked := []models.Booking{bid("09:00:00", "12:00:00", 15, models.StatusConfirmed)}
	assert.False(t, AllSlotsConfirmed(slots, oneBooked))

	bothBooked := append(oneBooked, bid("13:00:00", "17:00:00", 16, models.StatusConfirmed))
	assert.True(t, AllSlotsConfirmed(slots, bothBooked))

	// pending bids compete for time, they never block it
	pendingEverywhere := []models.Booking{bid("09:00:00", "17:00:00", 15, models.StatusPending)}
	assert.False(t, AllSlotsConfirmed(slots, pendingEverywhere))

	// a date without slots is unavailable, not fully booked
	assert.False(t, AllSlotsConfirmed(nil, bothBooked))
}

func TestSubmitBid_RejectsBadInputBeforeTouchingStore(t *testing.T) {
	svc := NewBidService(nil)

	valid := BidInput{
		Date:          "2025-06-01",
		StartTime:     "09:00:00",
		EndTime:       "12:00:00",
		CustomerName:  "Jo Parent",
		CustomerEmail: "jo@example.com",
		BidAmount:     15,
	}

	noName := valid
	noName.CustomerName = "   "
	_, _, err := svc.SubmitBid(noName, nil)
	assert.ErrorIs(t, err, ErrMissingField)

	noContact := valid
	noContact.CustomerEmail = ""
	noContact.CustomerPhone = ""
	_, _, err = svc.SubmitBid(noContact, nil)
	assert.ErrorIs(t, err, ErrMissingField)

	inverted := valid
	inverted.StartTime, inverted.EndTime = inverted.EndTime, inverted.StartTime
	_, _, err = svc.SubmitBid(inverted, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)

	empty := valid
	empty.EndTime = empty.StartTime
	_, _, err = svc.SubmitBid(empty, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)

	garbled := valid
	garbled.StartTime = "nine o'clock"
	_, _, err = svc.SubmitBid(garbled, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSummarizeSlots(t *testing.T) {
	open := slot("09:00:00", "12:00:00", 12)
	booked := slot("13:00:00", "17:00:00", 14)
	slots := []models.AvailabilitySlot{open, booked}

	bids := []models.Booking{
		bid("09:00:00", "11:00:00", 13, models.StatusPending),
		bid("10:00:00", "12:00:00", 15, models.StatusPending),
		bid("13:00:00", "17:00:00", 18, models.StatusConfirmed),
	}

	views := SummarizeSlots(slots, bids)
	require.Len(t, views, 2)

	assert.Equal(t, open.ID, views[0].ID)
	assert.Equal(t, 2, views[0].BidCount)
	assert.False(t, views[0].IsBooked)
	require.NotNil(t, views[0].HighestBid)
	assert.Equal(t, 15.0, *views[0].HighestBid)

	assert.Equal(t, 0, views[1].BidCount)
	assert.True(t, views[1].IsBooked)
	require.NotNil(t, views[1].HighestBid)
	assert.Equal(t, 18.0, *views[1].HighestBid)

	// bids on another date never leak into the summary
	otherDay := bid("09:00:00", "12:00:00", 30, models.StatusPending)
	otherDay.Date = "2025-06-02"
	views = SummarizeSlots([]models.AvailabilitySlot{open}, []models.Booking{otherDay})
	require.Len(t, views, 1)
	assert.Equal(t, 0, views[0].BidCount)
	assert.Nil(t, views[0].HighestBid)
}

func TestOverlappingBids_StatusFilter(t *testing.T) {
	bids := []models.Booking{
		bid("09:00:00", "10:00:00", 12, models.StatusPending),
		bid("09:30:00", "11:00:00", 13, models.StatusConfirmed),
		bid("09:00:00", "10:00:00", 14, models.StatusCancelled),
	}

	pending := OverlappingBids(bids, 540, 660, models.StatusPending)
	assert.Len(t, pending, 1)

	both := OverlappingBids(bids, 540, 660, models.StatusPending, models.StatusConfirmed)
	assert.Len(t, both, 2)
}
