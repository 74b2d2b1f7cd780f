// Package tz implements the timezone-aware calendar rules for checkout
// deadlines. Every function is pure given a resolved *time.Location.
package tz

import (
	"log"
	"time"
)

// Resolve maps an IANA zone name to a *time.Location, falling back to UTC
// for an empty or unknown name.
func Resolve(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// LocalNow returns the current wall time in the given location.
func LocalNow(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// ToLocal converts an absolute instant to the location's wall time.
func ToLocal(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// UnlockPassed reports whether an unlock instant has elapsed as of now,
// evaluated in the location's timezone.
func UnlockPassed(unlock time.Time, loc *time.Location, now time.Time) bool {
	return !now.In(loc).Before(unlock.In(loc))
}

// IsUnlockTimePassed is UnlockPassed against the current time.
func IsUnlockTimePassed(unlock time.Time, loc *time.Location) bool {
	return UnlockPassed(unlock, loc, time.Now())
}

// IsWeekend reports whether the instant falls on Friday, Saturday or Sunday
// in the location's timezone.
func IsWeekend(t time.Time, loc *time.Location) bool {
	switch t.In(loc).Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// ReturnWindow computes the return deadline for a checkout started at the
// given instant. Checkouts made Monday through Thursday (local) are due one
// day later; checkouts made Friday through Sunday are due the following
// Monday at the same local time of day, seconds truncated. The returned
// instant is in UTC; the bool reports whether the window crossed a weekend.
func ReturnWindow(checkoutTime time.Time, loc *time.Location) (time.Time, bool) {
	local := checkoutTime.In(loc)

	switch local.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return local.AddDate(0, 0, 1).UTC(), false
	}

	// Friday, Saturday or Sunday: due back the coming Monday.
	days := (8 - int(local.Weekday())) % 7
	target := local.AddDate(0, 0, days)
	expected := time.Date(target.Year(), target.Month(), target.Day(),
		local.Hour(), local.Minute(), 0, 0, loc)
	return expected.UTC(), true
}
