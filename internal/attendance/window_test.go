package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	today := time.Date(2025, 9, 18, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		termStart string
		asOf      string
		want      Window
	}{
		{"term start wins", "2025-08-01", "2025-09-01", Window{"2025-08-01", "2025-09-18", StartTerm}},
		{"baseline when no term start", "", "2025-09-01", Window{"2025-09-01", "2025-09-18", StartBaseline}},
		{"month start fallback", "", "", Window{"2025-09-01", "2025-09-18", StartMonthFirst}},
		{"unparseable term start skipped", "soon", "2025-09-03", Window{"2025-09-03", "2025-09-18", StartBaseline}},
		{"future term start skipped", "2025-10-01", "", Window{"2025-09-01", "2025-09-18", StartMonthFirst}},
		{"loose date format", "01/08/2025", "", Window{"2025-08-01", "2025-09-18", StartTerm}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWindow(tt.termStart, tt.asOf, today))
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: "2025-09-01", End: "2025-09-18"}
	assert.True(t, w.Contains("2025-09-01"))
	assert.True(t, w.Contains("2025-09-18"))
	assert.False(t, w.Contains("2025-08-31"))
	assert.False(t, w.Contains("2025-09-19"))
}
