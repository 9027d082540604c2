package routine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDates() Dates {
	return Dates{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestDatesParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso", "2025-09-05", "2025-09-05"},
		{"day first slash", "05/09/2025", "2025-09-05"},
		{"day first dash short year", "5-9-25", "2025-09-05"},
		{"two digit year in 1900s", "05/09/75", "1975-09-05"},
		{"month first when day first is impossible", "09/25/2025", "2025-09-25"},
		{"no year uses current year", "05/09", "2026-09-05"},
		{"trailing clock", "05/09/2025 10:30 AM", "2025-09-05"},
		{"trailing clock with seconds", "2025-09-05 08:00:00", "2025-09-05"},
		{"textual", "5 Sep 2025", "2025-09-05"},
		{"weekday textual", "Friday, 5 September 2025", "2025-09-05"},
		{"us textual", "Sep 5, 2025", "2025-09-05"},
		{"four letter september", "5 Sept 2025", "2025-09-05"},
		{"four letter september with dot", "Sept. 5, 2025", "2025-09-05"},
		{"dotted short year", "05.09.25", "2025-09-05"},
		{"dotted full year", "5.9.2025", "2025-09-05"},
		{"padding", "  05/09/2025  ", "2025-09-05"},
	}

	d := fixedDates()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Parse(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, DateKey(got))
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDatesParse_Rejects(t *testing.T) {
	d := fixedDates()
	for _, raw := range []string{"", "TBD", "Date", "31/02/2025", "Week 3", "13/13/2025", "9.30", "31.02.25"} {
		_, ok := d.Parse(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestParseDate_UsesLocalMidnight(t *testing.T) {
	got, ok := ParseDate("2025-01-31")
	require.True(t, ok)
	assert.Equal(t, time.Local, got.Location())
	assert.Equal(t, "2025-01-31", DateKey(got))
}
