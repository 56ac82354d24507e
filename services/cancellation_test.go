package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitterbid-backend/models"
	"sitterbid-backend/utils"
)

func confirmedBooking(t *testing.T, date, start, end string, rate float64) (models.Booking, time.Time) {
	t.Helper()
	b := models.Booking{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		BidAmount: rate,
		Status:    models.StatusConfirmed,
	}
	instant, err := utils.CombineDateTime(date, start)
	require.NoError(t, err)
	return b, instant
}

func TestRoundCurrency_HalfUp(t *testing.T) {
	assert.Equal(t, 22.5, RoundCurrency(22.5))
	assert.Equal(t, 0.13, RoundCurrency(0.125))
	assert.Equal(t, 2.19, RoundCurrency(2.1875))
	assert.Equal(t, 9.99, RoundCurrency(9.99))
}

func TestCancellationTier_FreeAboveDayNotice(t *testing.T) {
	b, start := confirmedBooking(t, "2025-06-01", "09:00:00", "12:00:00", 15)

	tier, fee, err := CancellationTier(&b, start.Add(-25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)
	assert.Equal(t, 0.0, fee)
}

func TestCancellationTier_ExactlyOneDayIsHalf(t *testing.T) {
	// 3h at £15/hr = £45 value; 24h notice lands in the inclusive 12-24 band
	b, start := confirmedBooking(t, "2025-06-01", "09:00:00", "12:00:00", 15)

	tier, fee, err := CancellationTier(&b, start.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.TierHalf, tier)
	assert.Equal(t, 22.5, fee)
}

func TestCancellationTier_ExactlyTwelveHoursIsHalf(t *testing.T) {
	b, start := confirmedBooking(t, "2025-06-01", "09:00:00", "12:00:00", 15)

	tier, fee, err := CancellationTier(&b, start.Add(-12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.TierHalf, tier)
	assert.Equal(t, 22.5, fee)
}

func TestCancellationTier_UnderTwelveHoursIsFull(t *testing.T) {
	b, start := confirmedBooking(t, "2025-06-01", "09:00:00", "12:00:00", 15)

	tier, fee, err := CancellationTier(&b, start.Add(-11*time.Hour-59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.TierFull, tier)
	assert.Equal(t, 45.0, fee)
}

func TestCancellationTier_PastStartIsFull(t *testing.T) {
	b, start := confirmedBooking(t, "2025-06-01", "09:00:00", "12:00:00", 15)

	tier, fee, err := CancellationTier(&b, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.TierFull, tier)
	assert.Equal(t, 45.0, fee)
}

func TestCancellationTier_HalfFeeOnOddValue(t *testing.T) {
	// 1.5h at £15/hr = £22.50 value; half is £11.25
	b, start := confirmedBooking(t, "2025-06-01", "09:00:00", "10:30:00", 15)

	tier, fee, err := CancellationTier(&b, start.Add(-18*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.TierHalf, tier)
	assert.Equal(t, 11.25, fee)
}

func TestCancellationTier_BadTime(t *testing.T) {
	b := models.Booking{Date: "junk", StartTime: "09:00:00"}
	_, _, err := CancellationTier(&b, time.Now())
	assert.Error(t, err)
}
