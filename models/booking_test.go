package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func booking(date, start, end string, status string) Booking {
	return Booking{Date: date, StartTime: start, EndTime: end, Status: status}
}

func TestBooking_Minutes(t *testing.T) {
	b := booking("2025-06-01", "09:00:00", "12:30:00", StatusPending)
	assert.Equal(t, 540, b.StartMinutes())
	assert.Equal(t, 750, b.EndMinutes())
}

func TestBooking_DurationAndValue(t *testing.T) {
	b := booking("2025-06-01", "09:00:00", "12:00:00", StatusConfirmed)
	b.BidAmount = 15

	assert.Equal(t, 3.0, b.DurationHours())
	assert.Equal(t, 45.0, b.TotalValue())
}

func TestBooking_OverlapsWith(t *testing.T) {
	a := booking("2025-06-01", "09:00:00", "12:00:00", StatusPending)

	overlapping := booking("2025-06-01", "11:00:00", "13:00:00", StatusPending)
	assert.True(t, a.OverlapsWith(&overlapping))
	assert.True(t, overlapping.OverlapsWith(&a))

	adjacent := booking("2025-06-01", "12:00:00", "14:00:00", StatusPending)
	assert.False(t, a.OverlapsWith(&adjacent))

	otherDay := booking("2025-06-02", "09:00:00", "12:00:00", StatusPending)
	assert.False(t, a.OverlapsWith(&otherDay))
}

func TestBooking_IsResolved(t *testing.T) {
	pending := booking("2025-06-01", "09:00:00", "10:00:00", StatusPending)
	assert.False(t, pending.IsResolved())

	for _, status := range []string{StatusConfirmed, StatusDeclined, StatusCancelled} {
		resolved := booking("2025-06-01", "09:00:00", "10:00:00", status)
		assert.True(t, resolved.IsResolved(), status)
	}
}
