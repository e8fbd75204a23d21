// Package booking holds the reservation conflict logic: parsing of
// wall-clock times, the interval overlap predicate and the table
// availability checker. Everything in this package is store-agnostic;
// persistence is injected through small source interfaces so the same
// rules apply no matter which backend holds the rows.
package booking

import (
	"errors"
	"fmt"
)

// minutesPerDay is the length of one logical service day.
const minutesPerDay = 24 * 60

// ErrBadClock is returned by ParseClock for anything that is not a
// valid HH:MM wall-clock string.
var ErrBadClock = errors.New("invalid clock time, want HH:MM")

// ParseClock converts an "HH:MM" string to minutes since midnight.
// Hours run 00-23 and minutes 00-59; "24:00" is not accepted, the
// end of day is expressed as "00:00" on a midnight-crossing window.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, m := 0, 0
	for _, c := range s[:2] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
		}
		h = h*10 + int(c-'0')
	}
	for _, c := range s[3:] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
		}
		m = m*10 + int(c-'0')
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight back to HH:MM, wrapping
// values past the end of the day. Used when deriving the end of a
// default-length dining window that may run past midnight.
func FormatClock(min int) string {
	min %= minutesPerDay
	if min < 0 {
		min += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
