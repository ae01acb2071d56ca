// Package schedule computes daily trigger times for the digest emitter.
package schedule

import "time"

// NextDaily returns the next occurrence of hour:minute in loc strictly
// after the given time. If today's occurrence has already passed (or is
// exactly now), the result is tomorrow's.
func NextDaily(after time.Time, hour, minute int, loc *time.Location) time.Time {
	local := after.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
