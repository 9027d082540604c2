package attendance

import (
	"time"

	"github.com/julianstephens/cohort/internal/routine"
)

// StartSource records which setting decided a window's start.
type StartSource string

const (
	StartTerm       StartSource = "term_start"
	StartBaseline   StartSource = "baseline"
	StartMonthFirst StartSource = "month_start"
)

// Window is an inclusive range of date keys (YYYY-MM-DD).
type Window struct {
	Start  string
	End    string
	Source StartSource
}

// Contains reports whether key falls inside the window.
func (w Window) Contains(key string) bool {
	return key >= w.Start && key <= w.End
}

// ResolveWindow ends the window today and starts it at the term start,
// else the baseline's as-of date, else the first of today's month. A start
// that cannot be parsed or lies after today is skipped.
func ResolveWindow(termStart, baselineAsOf string, today time.Time) Window {
	end := routine.DateKey(today)

	for _, c := range []struct {
		raw    string
		source StartSource
	}{
		{termStart, StartTerm},
		{baselineAsOf, StartBaseline},
	} {
		if c.raw == "" {
			continue
		}
		t, ok := routine.Dates{Location: today.Location()}.Parse(c.raw)
		if !ok {
			continue
		}
		if start := routine.DateKey(t); start <= end {
			return Window{Start: start, End: end, Source: c.source}
		}
	}

	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return Window{Start: routine.DateKey(first), End: end, Source: StartMonthFirst}
}
