package util

import (
	"strconv"
	"time"
)

// APIDateLayout is the YYYY-MM-DD format used by market data APIs.
const APIDateLayout = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, YYYY-MM-DD, and unix seconds.
// Returns (t, true) if any worked.
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
	if t, err := time.Parse(APIDateLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
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

// DateWindow returns [now-days, now] formatted as YYYY-MM-DD, the
// from/to pair expected by news and insider endpoints.
func DateWindow(now time.Time, days int) (string, string) {
	from := now.AddDate(0, 0, -days)
	return from.Format(APIDateLayout), now.Format(APIDateLayout)
}
