package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/parking-scheduler/internal/dateutil"
)

// retentionDays is how long booked/failed records stay visible after their
// parking date has passed. The boundary is inclusive: a record exactly
// retentionDays old is still kept.
const retentionDays = 7

// AddResult says what Add did with the requested date.
type AddResult string

const (
	Added     AddResult = "added"
	Reset     AddResult = "reset"
	Unchanged AddResult = "unchanged"
)

// Add upserts a pending record for date. An existing failed or no_space
// record is reset to pending so it will be retried; booked and pending
// records are left alone (adding never downgrades). The returned slice is
// sorted by parking date ascending.
func Add(records []Record, date time.Time, today time.Time) ([]Record, AddResult) {
	key := NewDate(date)
	result := Added

	if i := indexOf(records, key); i >= 0 {
		switch records[i].Status {
		case StatusFailed, StatusNoSpace:
			records[i].Status = StatusPending
			records[i].AttemptMessage = fmt.Sprintf("reset to pending on %s", dateutil.Format(today))
			result = Reset
		default:
			result = Unchanged
		}
		SortByDate(records)
		return records, result
	}

	records = append(records, Record{
		ParkingDate: key,
		Status:      StatusPending,
		CreatedAt:   NewDate(today),
	})
	SortByDate(records)
	return records, result
}

// Find returns the index of the record whose parking date equals date, or -1.
func Find(records []Record, date time.Time) int {
	return indexOf(records, NewDate(date))
}

func indexOf(records []Record, key Date) int {
	for i := range records {
		if records[i].ParkingDate.Equal(key) {
			return i
		}
	}
	return -1
}

// Prune drops records that no longer need visibility. A record survives if it
// is still pending, if it is no_space for today or a later date, or if it is
// booked/failed and its parking date lies within the trailing retention
// window. Pruning is idempotent.
func Prune(records []Record, today time.Time) []Record {
	day := dateutil.Midnight(today)
	cutoff := day.AddDate(0, 0, -retentionDays)

	kept := records[:0:0]
	for _, r := range records {
		switch {
		case r.Status == StatusPending:
			kept = append(kept, r)
		case r.Status == StatusNoSpace && !r.ParkingDate.Before(day):
			kept = append(kept, r)
		case (r.Status == StatusBooked || r.Status == StatusFailed) && !r.ParkingDate.Before(cutoff):
			kept = append(kept, r)
		}
	}
	return kept
}

// SortByDate orders records by parking date ascending, in place.
func SortByDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ParkingDate.Before(records[j].ParkingDate.Time)
	})
}
