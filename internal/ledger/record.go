// Package ledger holds the persisted booking records and the rules that keep
// the file bounded and consistent between daily runs.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/example/parking-scheduler/internal/dateutil"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusBooked  Status = "booked"
	StatusFailed  Status = "failed"
	StatusNoSpace Status = "no_space"
)

func (s Status) known() bool {
	switch s {
	case StatusPending, StatusBooked, StatusFailed, StatusNoSpace:
		return true
	}
	return false
}

// Date is a day-granularity timestamp that marshals to the canonical
// DD-MM-YYYY ledger format. Unmarshalling rejects anything that does not
// round-trip, so a record carrying a malformed date is dropped on load.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{dateutil.Midnight(t)}
}

func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) String() string {
	return dateutil.Format(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateutil.Format(d.Time))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := dateutil.Parse(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Record is one ledger entry: a parking date we want (or wanted) a space for.
// ParkingDate is the unique key within the ledger.
type Record struct {
	ParkingDate    Date   `json:"parking_date"`
	Status         Status `json:"status"`
	CreatedAt      Date   `json:"created_at"`
	LastAttempt    *Date  `json:"last_attempt,omitempty"`
	AttemptMessage string `json:"attempt_message,omitempty"`
}

// valid reports whether a loaded record carries the required fields.
func (r Record) valid() bool {
	return !r.ParkingDate.IsZero() && !r.CreatedAt.IsZero() && r.Status.known()
}
