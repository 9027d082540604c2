package schedule

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
)

// DatedEntry is a schedule entry together with its date key.
type DatedEntry struct {
	Date string
	models.ScheduleEntry
}

// Day returns the entries of one date ordered by slot start time. The
// returned slice is a copy.
func Day(b models.ByDate, key string) []models.ScheduleEntry {
	entries := slices.Clone(b[key])
	slices.SortStableFunc(entries, func(x, y models.ScheduleEntry) int {
		return cmp.Compare(routine.SlotMinutes(x.Time), routine.SlotMinutes(y.Time))
	})
	return entries
}

// Today returns the entries for the calendar day of now.
func Today(b models.ByDate, now time.Time) []models.ScheduleEntry {
	return Day(b, routine.DateKey(now))
}

// Tomorrow returns the entries for the day after now.
func Tomorrow(b models.ByDate, now time.Time) []models.ScheduleEntry {
	return Day(b, routine.DateKey(now.AddDate(0, 0, 1)))
}

// DayCell is one square of a month calendar.
type DayCell struct {
	Date    time.Time
	Key     string
	InMonth bool
	Classes int
	Exams   int
	Subs    int
}

// Busy reports whether anything is scheduled on the day.
func (c DayCell) Busy() bool {
	return c.Classes+c.Exams+c.Subs > 0
}

// MonthView is a Monday-first calendar of one month, padded to whole weeks.
type MonthView struct {
	Year  int
	Month time.Month
	Weeks [][]DayCell
}

// Month builds the calendar for year/month with per-day entry counts.
func Month(b models.ByDate, year int, month time.Month, loc *time.Location) MonthView {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) + 6) % 7
	day := first.AddDate(0, 0, -offset)

	view := MonthView{Year: year, Month: month}
	for {
		week := make([]DayCell, 7)
		for i := range week {
			week[i] = cell(b, day, month)
			day = day.AddDate(0, 0, 1)
		}
		view.Weeks = append(view.Weeks, week)
		if day.Month() != month {
			break
		}
	}
	return view
}

func cell(b models.ByDate, day time.Time, month time.Month) DayCell {
	key := routine.DateKey(day)
	c := DayCell{Date: day, Key: key, InMonth: day.Month() == month}
	for _, e := range b[key] {
		switch e.Type {
		case models.EntryExam:
			c.Exams++
		case models.EntrySubmission:
			c.Subs++
		default:
			c.Classes++
		}
	}
	return c
}

// Exams lists every exam, event and submission ordered by date then slot.
func Exams(b models.ByDate) []DatedEntry {
	var out []DatedEntry
	for date, entries := range b {
		for _, e := range entries {
			if e.Type == models.EntryExam || e.Type == models.EntrySubmission {
				out = append(out, DatedEntry{Date: date, ScheduleEntry: e})
			}
		}
	}
	slices.SortStableFunc(out, func(x, y DatedEntry) int {
		if c := strings.Compare(x.Date, y.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(routine.SlotMinutes(x.Time), routine.SlotMinutes(y.Time)); c != 0 {
			return c
		}
		return strings.Compare(x.Subject, y.Subject)
	})
	return out
}

// Upcoming keeps the dated entries on or after from.
func Upcoming(entries []DatedEntry, from time.Time) []DatedEntry {
	key := routine.DateKey(from)
	var out []DatedEntry
	for _, e := range entries {
		if e.Date >= key {
			out = append(out, e)
		}
	}
	return out
}

// Subjects returns the distinct class subjects of a schedule in
// alphabetical order. Juniors pick from this list. Spellings that differ
// only in case collapse to the lexically smallest one.
func Subjects(b models.ByDate) []string {
	spelling := map[string]string{}
	for _, entries := range b {
		for _, e := range entries {
			if !e.IsClass() {
				continue
			}
			k := strings.ToUpper(e.Subject)
			if prev, ok := spelling[k]; !ok || e.Subject < prev {
				spelling[k] = e.Subject
			}
		}
	}
	out := make([]string, 0, len(spelling))
	for _, s := range spelling {
		out = append(out, s)
	}
	slices.SortFunc(out, func(x, y string) int {
		return cmp.Or(strings.Compare(strings.ToUpper(x), strings.ToUpper(y)), strings.Compare(x, y))
	})
	return out
}

// Classes keeps only entries that count toward attendance.
func Classes(entries []models.ScheduleEntry) []models.ScheduleEntry {
	var out []models.ScheduleEntry
	for _, e := range entries {
		if e.IsClass() {
			out = append(out, e)
		}
	}
	return out
}
