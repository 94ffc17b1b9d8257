// Package clock provides an injectable time source so date-sensitive
// validation (like apply-date checks) can be tested deterministically.
package clock

import "time"

// DateFormat is the calendar-date layout used for apply dates.
const DateFormat = "2006-01-02"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the real wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time { return time.Now() }

// Today returns the clock's current date formatted as DateFormat.
func Today(c Clock) string {
	return c.Now().Format(DateFormat)
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return f.T }
