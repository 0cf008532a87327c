package booking

import (
	"time"

	"github.com/example/parking-scheduler/internal/dateutil"
	"github.com/example/parking-scheduler/internal/ledger"
)

// ChooseDue returns the pending record whose booking day is today. The portal
// only accepts requests exactly one day ahead, so a record is due when
// parking_date minus one day equals today. If several pending records qualify
// the first in ledger order wins; the rest stay pending for a later run.
func ChooseDue(records []ledger.Record, today time.Time) (ledger.Record, bool) {
	day := dateutil.Midnight(today)
	for _, r := range records {
		if r.Status != ledger.StatusPending {
			continue
		}
		bookOn := dateutil.Midnight(r.ParkingDate.AddDate(0, 0, -1))
		if bookOn.Equal(day) {
			return r, true
		}
	}
	return ledger.Record{}, false
}
