package separation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestParseFilter(t *testing.T) {
	today := d(2024, 5, 15)
	tests := []struct {
		filter string
		in     []time.Time
		out    []time.Time
	}{
		{"all", []time.Time{d(2001, 1, 1), d(2030, 1, 1)}, nil},
		{"today", []time.Time{today}, []time.Time{d(2024, 5, 14), d(2024, 5, 16)}},
		{"yesterday", []time.Time{d(2024, 5, 14)}, []time.Time{today}},
		{"last7days", []time.Time{d(2024, 5, 9), today}, []time.Time{d(2024, 5, 8), d(2024, 5, 16)}},
		{"last30days", []time.Time{d(2024, 4, 16), today}, []time.Time{d(2024, 4, 15)}},
		{"2024-04", []time.Time{d(2024, 4, 1), d(2024, 4, 30)}, []time.Time{d(2024, 3, 31), d(2024, 5, 1)}},
		{"February", []time.Time{d(2024, 2, 29)}, []time.Time{d(2024, 3, 1), d(2023, 2, 10)}},
		{"mar", []time.Time{d(2024, 3, 3)}, []time.Time{d(2024, 4, 3)}},
		{"custom:2024-01-10", []time.Time{d(2024, 1, 10)}, []time.Time{d(2024, 1, 11)}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			f, err := ParseFilter(tt.filter, today)
			require.NoError(t, err)
			for _, in := range tt.in {
				assert.True(t, f.Match(in), "%s should match %s", tt.filter, in.Format("2006-01-02"))
			}
			for _, out := range tt.out {
				assert.False(t, f.Match(out), "%s should not match %s", tt.filter, out.Format("2006-01-02"))
			}
		})
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for _, s := range []string{"custom:tomorrow", "fortnight", "2024-13"} {
		_, err := ParseFilter(s, d(2024, 5, 15))
		assert.True(t, errors.Is(err, ErrInvalidFilter), "%q", s)
	}
}
