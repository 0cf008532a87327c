package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/parking-scheduler/internal/ledger"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("02-01-2006", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func pending(date string) ledger.Record {
	return ledger.Record{
		ParkingDate: ledger.NewDate(day(date)),
		Status:      ledger.StatusPending,
		CreatedAt:   ledger.NewDate(day("01-03-2025")),
	}
}

func TestChooseDueSelectsTomorrowsPending(t *testing.T) {
	records := []ledger.Record{pending("08-03-2025"), pending("10-03-2025"), pending("15-03-2025")}

	got, ok := ChooseDue(records, day("09-03-2025"))

	require.True(t, ok)
	assert.Equal(t, "10-03-2025", got.ParkingDate.String())
}

func TestChooseDueIgnoresTimeOfDay(t *testing.T) {
	records := []ledger.Record{pending("10-03-2025")}
	lateEvening := day("09-03-2025").Add(23*time.Hour + 15*time.Minute)

	_, ok := ChooseDue(records, lateEvening)

	assert.True(t, ok)
}

func TestChooseDueSkipsNonPending(t *testing.T) {
	for _, status := range []ledger.Status{ledger.StatusBooked, ledger.StatusFailed, ledger.StatusNoSpace} {
		r := pending("10-03-2025")
		r.Status = status

		_, ok := ChooseDue([]ledger.Record{r}, day("09-03-2025"))

		assert.False(t, ok, status)
	}
}

func TestChooseDueNothingEligible(t *testing.T) {
	records := []ledger.Record{pending("11-03-2025"), pending("20-03-2025")}

	_, ok := ChooseDue(records, day("09-03-2025"))

	assert.False(t, ok)
}

func TestChooseDueFirstInLedgerOrderWins(t *testing.T) {
	first := pending("10-03-2025")
	first.AttemptMessage = "first"
	second := pending("10-03-2025")
	second.AttemptMessage = "second"

	got, ok := ChooseDue([]ledger.Record{first, second}, day("09-03-2025"))

	require.True(t, ok)
	assert.Equal(t, "first", got.AttemptMessage)
}
