package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrips(t *testing.T) {
	for _, s := range []string{"10-03-2025", "09-03-2025", "31-12-2025", "01-01-2000", "29-02-2024"} {
		parsed, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, Format(parsed))
	}
}

func TestParseRejectsNonCanonical(t *testing.T) {
	for _, s := range []string{
		"",
		"1-3-2025",    // unpadded
		"2025-03-10",  // ISO order
		"10/03/2025",  // wrong separator
		"31-02-2025",  // no such day
		"10-13-2025",  // no such month
		"10-03-25",    // short year
		"not-a-date",
	} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	in := time.Date(2025, time.March, 9, 17, 42, 13, 999, loc)
	got := Midnight(in)

	assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, time.March, 9, 1, 0, 0, 0, time.Local)
	evening := time.Date(2025, time.March, 9, 23, 59, 0, 0, time.Local)
	next := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, next))
}

func TestDayOfMonth(t *testing.T) {
	assert.Equal(t, "9", DayOfMonth(time.Date(2025, time.March, 9, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "31", DayOfMonth(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local)))
}
