package separation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFilter is returned for filter strings that cannot be interpreted.
var ErrInvalidFilter = errors.New("invalid separation filter")

// Filter selects separated employees by exit date. Range bounds are inclusive calendar dates.
type Filter struct {
	Name string
	all  bool
	from time.Time
	to   time.Time
}

// ParseFilter interprets all, today, yesterday, last7days, last30days, a month
// (YYYY-MM or an English month name in the current year) or custom:YYYY-MM-DD.
// today must be a local calendar date.
func ParseFilter(s string, today time.Time) (Filter, error) {
	raw := strings.TrimSpace(s)
	name := strings.ToLower(raw)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch name {
	case "", "all":
		return Filter{Name: "all", all: true}, nil
	case "today":
		return dayFilter(name, today), nil
	case "yesterday":
		return dayFilter(name, today.AddDate(0, 0, -1)), nil
	case "last7days":
		return Filter{Name: name, from: today.AddDate(0, 0, -6), to: today}, nil
	case "last30days":
		return Filter{Name: name, from: today.AddDate(0, 0, -29), to: today}, nil
	}

	if strings.HasPrefix(name, "custom:") {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw[len("custom:"):]), today.Location())
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, raw, err)
		}
		return dayFilter(name, d), nil
	}

	if m, err := time.ParseInLocation("2006-01", name, today.Location()); err == nil {
		return monthFilter(name, m.Year(), m.Month(), today.Location()), nil
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return monthFilter(name, today.Year(), m, today.Location()), nil
		}
	}
	return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
}

func dayFilter(name string, d time.Time) Filter {
	return Filter{Name: name, from: d, to: d}
}

func monthFilter(name string, year int, month time.Month, loc *time.Location) Filter {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Filter{Name: name, from: first, to: first.AddDate(0, 1, -1)}
}

// Match reports whether the exit date falls inside the filter.
func (f Filter) Match(exitDate time.Time) bool {
	if f.all {
		return true
	}
	d := time.Date(exitDate.Year(), exitDate.Month(), exitDate.Day(), 0, 0, 0, 0, f.from.Location())
	return !d.Before(f.from) && !d.After(f.to)
}
