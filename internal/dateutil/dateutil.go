// Package dateutil holds the canonical ledger date format and the day-level
// time helpers shared by the scheduler, the ledger and the portal driver.
package dateutil

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// Layout is the canonical textual date format used everywhere a date crosses
// a boundary: the ledger file, CLI arguments and attempt messages.
const Layout = "02-01-2006"

// Format renders t in the canonical DD-MM-YYYY form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a canonical DD-MM-YYYY string. Parsing is strict: reformatting
// the parsed value must reproduce the input exactly, otherwise the string is
// rejected. This catches unpadded days ("1-3-2025") and normalized overflow
// dates ("31-02-2025") that time.Parse would otherwise accept or shift.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q (want DD-MM-YYYY)", s)
	}
	if Format(t) != s {
		return time.Time{}, errors.Newf("invalid date %q: does not round-trip through %s", s, Layout)
	}
	return t, nil
}

// DayOfMonth returns the unpadded day number used to locate the matching
// calendar cell on the portal ("9", not "09").
func DayOfMonth(t time.Time) string {
	return strconv.Itoa(t.Day())
}

// Midnight truncates t to the start of its calendar day in t's location.
// All day-level comparisons go through this so time of day never skews them.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}
