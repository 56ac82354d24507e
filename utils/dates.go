// utils/dates.go
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeToMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func TimeToMinutes(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", t)
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes since midnight as "HH:MM:SS".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back ranges do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// DateKey formats a time as the canonical YYYY-MM-DD date key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CombineDateTime builds a local-time instant from a date key and a
// time-of-day string. Bookings carry no time zone; the server's local
// zone is the single implicit zone for notice-period arithmetic.
func CombineDateTime(dateKey, timeStr string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", dateKey, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", dateKey)
	}
	minutes, err := TimeToMinutes(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(minutes) * time.Minute), nil
}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}
