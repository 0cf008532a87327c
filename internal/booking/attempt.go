package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/parking-scheduler/internal/dateutil"
	"github.com/example/parking-scheduler/internal/ledger"
)

// Attempt runs one end-to-end booking attempt: pick today's candidate date,
// drive a fresh portal session through the booking flow, classify the result,
// write it back to the ledger and prune stale records.
type Attempt struct {
	Store      *ledger.Store
	NewSession SessionFactory
	Creds      Credentials
	Log        *slog.Logger

	// Now is the clock; it defaults to time.Now and is fixed in tests.
	Now func() time.Time
}

// Result describes what a run did. Attempted is false when no record was due
// today, which is a successful no-op.
type Result struct {
	Attempted bool
	Date      time.Time
	Outcome   Outcome
	Message   string
}

// Run performs a single attempt. Portal errors never escape: they are
// classified into the record's status and attempt message. The returned error
// is reserved for unexpected programming errors.
func (a *Attempt) Run(ctx context.Context) (Result, error) {
	now := a.now()
	today := dateutil.Midnight(now)

	records := a.Store.Load()
	candidate, ok := ChooseDue(records, today)
	if !ok {
		a.Log.Info("no booking due today", "today", dateutil.Format(today))
		return Result{}, nil
	}
	a.Log.Info("attempting booking",
		"parking_date", candidate.ParkingDate.String(),
		"today", dateutil.Format(today))

	outcome, message := a.drive(ctx, candidate.ParkingDate.Time, now)
	a.Log.Info("attempt finished", "outcome", string(outcome), "message", message)

	if i := ledger.Find(records, candidate.ParkingDate.Time); i >= 0 {
		attempt := ledger.NewDate(today)
		records[i].Status = outcome.Status()
		records[i].LastAttempt = &attempt
		records[i].AttemptMessage = message
	} else {
		// Only possible if the ledger file changed under us mid-run.
		a.Log.Warn("attempted record vanished from ledger", "parking_date", candidate.ParkingDate.String())
	}

	records = ledger.Prune(records, today)
	if err := a.Store.Save(records); err != nil {
		a.Log.Warn("ledger save failed", "err", err)
	}

	return Result{
		Attempted: true,
		Date:      candidate.ParkingDate.Time,
		Outcome:   outcome,
		Message:   message,
	}, nil
}

// drive walks one session through login, date selection, zone resolution and
// submission. Any step error fails the attempt; the session is always closed.
func (a *Attempt) drive(ctx context.Context, date time.Time, now time.Time) (Outcome, string) {
	stamp := now.Format(time.RFC3339)

	session, err := a.NewSession(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Sprintf("failed: could not open portal session at %s: %v", stamp, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			a.Log.Warn("session close failed", "err", err)
		}
	}()

	if err := session.Login(ctx, a.Creds); err != nil {
		return OutcomeFailed, fmt.Sprintf("failed: login at %s: %v", stamp, err)
	}
	if err := session.SelectDate(ctx, date); err != nil {
		return OutcomeFailed, fmt.Sprintf("failed: selecting %s at %s: %v", dateutil.Format(date), stamp, err)
	}
	zone, err := session.ResolveZoneAvailability(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Sprintf("failed: resolving zone at %s: %v", stamp, err)
	}
	outcome, err := session.Submit(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Sprintf("failed: submit at %s: %v", stamp, err)
	}

	switch outcome {
	case OutcomeBooked:
		return outcome, fmt.Sprintf("booked %s zone for %s at %s", zone, dateutil.Format(date), stamp)
	case OutcomeNoSpace:
		return outcome, fmt.Sprintf("no spaces in %s zone for %s at %s", zone, dateutil.Format(date), stamp)
	default:
		return OutcomeFailed, fmt.Sprintf("failed: portal reported an error for %s at %s", dateutil.Format(date), stamp)
	}
}

func (a *Attempt) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
