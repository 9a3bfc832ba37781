// Package timefmt parses and formats the clock and date strings used by the
// prayer-time service: "HH:MM" times of day, "DD.MM.YYYY" date keys, and
// "MM.YYYY" month stamps.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layouts for the service's date formats.
const (
	DateLayout  = "02.01.2006" // gregorianDateShort, the natural record key
	MonthLayout = "01.2006"    // cache month stamp
	ClockLayout = "15:04"
)

// ErrMalformedTime reports a time string that is not "H:MM" or "HH:MM"
// with hour 0-23 and minute 0-59.
var ErrMalformedTime = errors.New("malformed time string")

// Parse combines a "H:MM" or "HH:MM" clock string with the calendar date of
// day in the given location. Seconds are truncated to zero.
func Parse(s string, day time.Time, loc *time.Location) (time.Time, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	hour, ok := atoi2(hh)
	if !ok || hour > 23 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	min, ok := atoi2(mm)
	if !ok || min > 59 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, loc), nil
}

// Format renders a timestamp back to a zero-padded "HH:MM" string.
// Round-trips exactly with Parse for any input Parse accepts.
func Format(t time.Time) string {
	return t.Format(ClockLayout)
}

// DateKey renders the "DD.MM.YYYY" key used to look records up in a monthly batch.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthStamp renders the "MM.YYYY" stamp that scopes a monthly cache.
func MonthStamp(t time.Time) string {
	return t.Format(MonthLayout)
}

// atoi2 parses a 1-2 digit decimal string. Rejects signs, spaces, and
// anything strconv would forgive.
func atoi2(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
