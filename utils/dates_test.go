package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"07:30", 450},
		{"09:00:00", 540},
		{"21:30:00", 1290},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := TimeToMinutes(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestTimeToMinutes_Invalid(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "ab:cd", "12-30"} {
		_, err := TimeToMinutes(in)
		assert.Error(t, err, in)
	}
}

func TestMinutesToTime(t *testing.T) {
	assert.Equal(t, "09:00:00", MinutesToTime(540))
	assert.Equal(t, "21:30:00", MinutesToTime(1290))
	assert.Equal(t, "00:00:00", MinutesToTime(0))
}

func TestOverlaps_HalfOpen(t *testing.T) {
	nine, eleven, noon, one := 540, 660, 720, 780

	// [9:00,12:00) and [11:00,13:00) overlap
	assert.True(t, Overlaps(nine, noon, eleven, one))

	// [9:00,11:00) and [11:00,13:00) touch but do not overlap
	assert.False(t, Overlaps(nine, eleven, eleven, one))

	// containment
	assert.True(t, Overlaps(nine, one, eleven, noon))
}

func TestOverlaps_Symmetric(t *testing.T) {
	ranges := [][2]int{{540, 720}, {660, 780}, {540, 660}, {700, 701}}
	for _, a := range ranges {
		for _, b := range ranges {
			assert.Equal(t,
				Overlaps(a[0], a[1], b[0], b[1]),
				Overlaps(b[0], b[1], a[0], a[1]))
		}
	}
}

func TestCombineDateTime(t *testing.T) {
	instant, err := CombineDateTime("2025-06-01", "09:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", DateKey(instant))
	assert.Equal(t, 9, instant.Hour())
	assert.Equal(t, 0, instant.Minute())

	_, err = CombineDateTime("junk", "09:00:00")
	assert.Error(t, err)
	_, err = CombineDateTime("2025-06-01", "junk")
	assert.Error(t, err)
}
