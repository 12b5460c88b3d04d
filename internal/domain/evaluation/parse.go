package evaluation

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var placeholders = map[string]struct{}{
	"":     {},
	"0":    {},
	"null": {},
	"none": {},
	"n/a":  {},
	"-":    {},
	"na":   {},
}

// IsPlaceholder reports whether v is one of the filler values the source uses for "no value".
func IsPlaceholder(v string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// ParseDays reads an integer-like day count ("27", "27.0", " 27 ").
// ok is false for empty or non-numeric input.
func ParseDays(v string) (days int, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// excelEpoch is day zero for spreadsheet serial dates.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate reads a calendar date from the shapes the data source produces:
// ISO-like strings, millisecond epoch timestamps, or spreadsheet serial numbers.
// The result is midnight of that date in loc. ok is false for placeholders and garbage.
func ParseDate(v string, loc *time.Location) (date time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	v = strings.TrimSpace(v)
	if IsPlaceholder(v) {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		switch {
		case f >= 1e11:
			t := time.UnixMilli(int64(f)).In(loc)
			return DateOf(t), true
		case f > 0 && f < 100000:
			t := excelEpoch.AddDate(0, 0, int(f))
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		default:
			return time.Time{}, false
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return DateOf(t.In(loc)), true
		}
	}
	return time.Time{}, false
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
