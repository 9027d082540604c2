package attendance

import (
	"math"
	"slices"
	"strings"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
)

// Row is the attendance of one subject over a window.
type Row struct {
	Subject        string
	Scheduled      int
	ScheduledToday int
	AttendedToday  int
	MissedBaseline int
	MissedToday    int
	Missed         int
	Attended       int
	// Percent is Attended/Scheduled*100, or 0 with nothing scheduled.
	Percent float64
}

// Pct is Percent rounded to the nearest whole number.
func (r Row) Pct() int {
	return int(math.Round(r.Percent))
}

// Totals sums the rows. AveragePct is the mean of the rounded row
// percentages.
type Totals struct {
	Scheduled  int
	Attended   int
	Missed     int
	AveragePct int
}

// Report is the reconciled attendance for a viewer.
type Report struct {
	Window Window
	Rows   []Row
	Totals Totals
}

// Reconcile counts the class sessions of each subject inside the window and
// subtracts the baseline misses plus today's unattended classes. today holds
// the viewer's selections for the window's end day and may be nil.
// Rows follow subjects; with no subjects every scheduled class gets a row.
func Reconcile(b models.ByDate, w Window, baseline *models.AttendanceBaseline, today *models.DaySelections, subjects []string) Report {
	scheduled := map[string]int{}
	scheduledToday := map[string]int{}
	names := map[string]string{}

	for date, entries := range b {
		if !w.Contains(date) {
			continue
		}
		for _, e := range entries {
			if !e.IsClass() {
				continue
			}
			k := subjectKey(e.Subject)
			if _, ok := names[k]; !ok {
				names[k] = e.Subject
			}
			scheduled[k]++
			if date == w.End {
				scheduledToday[k]++
			}
		}
	}

	attendedToday := map[string]int{}
	if today != nil && today.Day == w.End {
		for subj, n := range today.AttendedCounts() {
			attendedToday[subjectKey(subj)] += n
		}
	}

	missedBase := map[string]int{}
	if baseline != nil {
		for subj, n := range baseline.Missed {
			if n > 0 {
				missedBase[subjectKey(subj)] += n
			}
		}
	}

	if len(subjects) == 0 {
		for k := range scheduled {
			subjects = append(subjects, names[k])
		}
		slices.Sort(subjects)
	}

	report := Report{Window: w}
	seen := map[string]bool{}
	for _, subj := range subjects {
		k := subjectKey(subj)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true

		row := Row{
			Subject:        subj,
			Scheduled:      scheduled[k],
			ScheduledToday: scheduledToday[k],
			AttendedToday:  attendedToday[k],
			MissedBaseline: missedBase[k],
		}
		row.MissedToday = max(0, row.ScheduledToday-row.AttendedToday)
		row.Missed = row.MissedBaseline + row.MissedToday
		row.Attended = max(0, row.Scheduled-row.Missed)
		row.Percent = Percentage(row.Attended, row.Scheduled)
		report.Rows = append(report.Rows, row)
	}

	report.Totals = totals(report.Rows)
	return report
}

// Percentage returns attended/scheduled*100, defined as 0 when nothing was
// scheduled.
func Percentage(attended, scheduled int) float64 {
	if scheduled <= 0 {
		return 0
	}
	return float64(attended) / float64(scheduled) * 100
}

func totals(rows []Row) Totals {
	var t Totals
	sum := 0
	for _, r := range rows {
		t.Scheduled += r.Scheduled
		t.Attended += r.Attended
		t.Missed += r.Missed
		sum += r.Pct()
	}
	if len(rows) > 0 {
		t.AveragePct = int(math.Round(float64(sum) / float64(len(rows))))
	}
	return t
}

func subjectKey(s string) string {
	return strings.ToUpper(routine.Canonicalize(s))
}
