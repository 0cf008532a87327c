// Package booking contains the attempt orchestration: which date to book
// today, the contract a portal session has to satisfy, and how an attempt's
// result is written back to the ledger.
package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/example/parking-scheduler/internal/ledger"
)

// Error taxonomy for portal interaction. All of these are contained by the
// orchestrator and mapped to a failed attempt; none crash the process.
var (
	ErrAuthentication = errors.New("portal authentication failed")
	ErrUIInteraction  = errors.New("portal element not found or not interactable")
	ErrTimeout        = errors.New("portal interaction timed out")
)

type Credentials struct {
	Username string
	Password string
}

// Zone identifies the parking pool a request is submitted against. Shared is
// the default; Paid is the fallback when shared reports no availability.
type Zone string

const (
	ZoneShared Zone = "shared"
	ZonePaid   Zone = "paid"
)

// Outcome is the classified result of a submission.
type Outcome string

const (
	OutcomeBooked  Outcome = "booked"
	OutcomeNoSpace Outcome = "no_space"
	OutcomeFailed  Outcome = "failed"
)

// Status maps an outcome to the ledger status it produces.
func (o Outcome) Status() ledger.Status {
	switch o {
	case OutcomeBooked:
		return ledger.StatusBooked
	case OutcomeNoSpace:
		return ledger.StatusNoSpace
	default:
		return ledger.StatusFailed
	}
}

// Driver is one interactive session against the parking portal. Calls must be
// made in order: Login, SelectDate, ResolveZoneAvailability, Submit. Login is
// responsible for any intermediate navigation the portal needs after
// authenticating; callers only see "on the booking form, or failed".
// ResolveZoneAvailability applies the zone fallback and reports which zone the
// submission will run against; it only errors on transport-level failures.
// Every call carries a bounded internal wait and returns a taxonomy error
// rather than blocking indefinitely.
type Driver interface {
	Login(ctx context.Context, creds Credentials) error
	SelectDate(ctx context.Context, date time.Time) error
	ResolveZoneAvailability(ctx context.Context) (Zone, error)
	Submit(ctx context.Context) (Outcome, error)
	Close() error
}

// SessionFactory produces a fresh isolated Driver session. The orchestrator
// acquires one per run and never reuses state across runs.
type SessionFactory func(ctx context.Context) (Driver, error)
