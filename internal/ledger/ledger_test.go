package ledger

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("02-01-2006", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAddCreatesPendingRecord(t *testing.T) {
	today := day("01-12-2025")

	records, result := Add(nil, day("31-12-2025"), today)

	require.Equal(t, Added, result)
	require.Len(t, records, 1)
	assert.Equal(t, StatusPending, records[0].Status)
	assert.Equal(t, "31-12-2025", records[0].ParkingDate.String())
	assert.Equal(t, "01-12-2025", records[0].CreatedAt.String())
	assert.Nil(t, records[0].LastAttempt)
}

func TestAddResetsFailedAndNoSpace(t *testing.T) {
	for _, status := range []Status{StatusFailed, StatusNoSpace} {
		records := []Record{{
			ParkingDate:    NewDate(day("10-03-2025")),
			Status:         status,
			CreatedAt:      NewDate(day("01-03-2025")),
			AttemptMessage: "previous failure",
		}}

		records, result := Add(records, day("10-03-2025"), day("09-03-2025"))

		require.Equal(t, Reset, result, status)
		require.Len(t, records, 1)
		assert.Equal(t, StatusPending, records[0].Status)
		assert.Equal(t, "reset to pending on 09-03-2025", records[0].AttemptMessage)
		// created_at is immutable after creation
		assert.Equal(t, "01-03-2025", records[0].CreatedAt.String())
	}
}

func TestAddNeverDowngrades(t *testing.T) {
	for _, status := range []Status{StatusBooked, StatusPending} {
		records := []Record{{
			ParkingDate: NewDate(day("10-03-2025")),
			Status:      status,
			CreatedAt:   NewDate(day("01-03-2025")),
		}}

		got, result := Add(records, day("10-03-2025"), day("09-03-2025"))

		assert.Equal(t, Unchanged, result, status)
		assert.Equal(t, status, got[0].Status)
		assert.Len(t, got, 1)
	}
}

func TestAddKeepsLedgerSorted(t *testing.T) {
	today := day("01-03-2025")
	records, _ := Add(nil, day("20-03-2025"), today)
	records, _ = Add(records, day("05-03-2025"), today)
	records, _ = Add(records, day("10-03-2025"), today)

	require.Len(t, records, 3)
	assert.Equal(t, "05-03-2025", records[0].ParkingDate.String())
	assert.Equal(t, "10-03-2025", records[1].ParkingDate.String())
	assert.Equal(t, "20-03-2025", records[2].ParkingDate.String())
}

func TestPrune(t *testing.T) {
	today := day("20-03-2025")
	rec := func(date string, status Status) Record {
		return Record{ParkingDate: NewDate(day(date)), Status: status, CreatedAt: NewDate(day("01-01-2025"))}
	}

	cases := []struct {
		name string
		in   Record
		kept bool
	}{
		{"pending is always kept", rec("01-01-2025", StatusPending), true},
		{"no_space today is kept", rec("20-03-2025", StatusNoSpace), true},
		{"no_space in the future is kept", rec("25-03-2025", StatusNoSpace), true},
		{"no_space in the past is dropped", rec("19-03-2025", StatusNoSpace), false},
		{"booked within the window is kept", rec("15-03-2025", StatusBooked), true},
		{"booked exactly 7 days old is kept", rec("13-03-2025", StatusBooked), true},
		{"booked 8 days old is dropped", rec("12-03-2025", StatusBooked), false},
		{"booked 19 days old is dropped", rec("01-03-2025", StatusBooked), false},
		{"failed within the window is kept", rec("14-03-2025", StatusFailed), true},
		{"failed outside the window is dropped", rec("10-03-2025", StatusFailed), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Prune([]Record{tc.in}, today)
			if tc.kept {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestPruneIsIdempotent(t *testing.T) {
	today := day("20-03-2025")
	records := []Record{
		{ParkingDate: NewDate(day("21-03-2025")), Status: StatusPending, CreatedAt: NewDate(today)},
		{ParkingDate: NewDate(day("18-03-2025")), Status: StatusBooked, CreatedAt: NewDate(today)},
		{ParkingDate: NewDate(day("01-03-2025")), Status: StatusFailed, CreatedAt: NewDate(today)},
		{ParkingDate: NewDate(day("19-03-2025")), Status: StatusNoSpace, CreatedAt: NewDate(today)},
	}

	once := Prune(records, today)
	twice := Prune(once, today)

	assert.Empty(t, cmp.Diff(once, twice))
	assert.Len(t, once, 2)
}

func TestFind(t *testing.T) {
	records := []Record{
		{ParkingDate: NewDate(day("09-03-2025")), Status: StatusPending, CreatedAt: NewDate(day("01-03-2025"))},
		{ParkingDate: NewDate(day("10-03-2025")), Status: StatusPending, CreatedAt: NewDate(day("01-03-2025"))},
	}

	assert.Equal(t, 1, Find(records, day("10-03-2025")))
	assert.Equal(t, -1, Find(records, day("11-03-2025")))
}
