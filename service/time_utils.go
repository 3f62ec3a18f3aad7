package service

import (
	"time"

	"leetstreak/models"
)

// Clock returns the current time. Services take one so tests can pin the date.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

// today returns the current UTC calendar date of clock
func today(clock Clock) time.Time {
	return models.DateOf(clock())
}

// sameDate reports whether a stored date equals day. A nil date never matches.
func sameDate(date *time.Time, day time.Time) bool {
	return date != nil && models.DateOf(*date).Equal(day)
}

// joinDeadline is the last instant at which a tournament that started at start accepts members
func joinDeadline(start time.Time, window time.Duration) time.Time {
	return start.UTC().Add(window)
}
