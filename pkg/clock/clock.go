// Package clock lets services and repositories take time as a dependency.
package clock

import "time"

// DateLayout is the calendar date format used for localDate and query bounds.
const DateLayout = "2006-01-02"

// Clock allows injecting time in services and repositories.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Today returns the UTC calendar date of c.Now() as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().UTC().Format(DateLayout)
}
