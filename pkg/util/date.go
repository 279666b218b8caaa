package util

import (
	"strconv"
	"time"
)

// DateLayout is the date-level key used by the history and indicator tables.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds/millis. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		// heuristics: values past year 3000 in seconds are millis
		if ts > 32503680000 {
			return time.UnixMilli(ts), true
		}
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// DateKey truncates a timestamp to its UTC date-level key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDateKey parses a date-level key back to a UTC midnight time.
func ParseDateKey(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays shifts a date key by n days. Invalid keys are returned unchanged.
func AddDays(key string, n int) string {
	t, ok := ParseDateKey(key)
	if !ok {
		return key
	}
	return DateKey(t.AddDate(0, 0, n))
}
