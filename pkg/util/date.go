package util

import (
	"strconv"
	"time"
)

// DayLayout is the calendar-date layout used by daily series.
const DayLayout = "2006-01-02"

// compactLayout is the timestamp layout of news feeds, e.g. 20240102T153000.
const compactLayout = "20060102T150405"

// ParseTime tries RFC3339, RFC3339Nano, the compact news layout and unix
// seconds. Returns (t, true) if any worked.
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
	if t, err := time.Parse(compactLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseDay parses a YYYY-MM-DD label as midnight UTC.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LastNDays returns n consecutive calendar days ending on end's date,
// oldest first, each at midnight UTC.
func LastNDays(end time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	y, m, d := end.UTC().Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = last.AddDate(0, 0, i-n+1)
	}
	return out
}
