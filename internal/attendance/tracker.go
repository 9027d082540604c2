package attendance

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/julianstephens/cohort/internal/logger"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
	"github.com/julianstephens/cohort/internal/storage"
)

// ErrNegativeMissed is returned for a baseline with a negative count.
var ErrNegativeMissed = errors.New("missed classes cannot be negative")

// Store is the part of storage.Provider the tracker uses.
type Store interface {
	GetBaseline(email string, term int) (models.AttendanceBaseline, error)
	SaveBaseline(models.AttendanceBaseline) error
	GetDay(email, day string) (models.DaySelections, error)
	SaveDay(models.DaySelections) error
	ListDays(email, start, end string) ([]models.DaySelections, error)
}

// Tracker reads and writes a viewer's attendance records and reconciles
// them against the parsed routine.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker returns a tracker over store using the wall clock.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// WithClock replaces the tracker clock.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Baseline returns the viewer's baseline for their current term, or nil.
func (t *Tracker) Baseline(p models.Profile) (*models.AttendanceBaseline, error) {
	b, err := t.store.GetBaseline(p.Email, p.Term)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading baseline: %w", err)
	}
	return &b, nil
}

// Day returns the viewer's record for a day, or nil.
func (t *Tracker) Day(email, day string) (*models.DaySelections, error) {
	d, err := t.store.GetDay(email, day)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading attendance for %s: %w", day, err)
	}
	return &d, nil
}

// Report reconciles the schedule with the viewer's baseline and today's
// selections. The window starts at the cohort's term start when set.
func (t *Tracker) Report(p models.Profile, s models.RoutineSettings, b models.ByDate, today time.Time) (Report, error) {
	baseline, err := t.Baseline(p)
	if err != nil {
		return Report{}, err
	}
	asOf := ""
	if baseline != nil {
		asOf = baseline.AsOf
	}
	w := ResolveWindow(s.TermStartFor(p.Cohort), asOf, today)

	rec, err := t.Day(p.Email, w.End)
	if err != nil {
		return Report{}, err
	}
	return Reconcile(b, w, baseline, rec, p.Subjects), nil
}

// SetBaseline stores the classes missed before tracking began. A first
// baseline is dated yesterday and an edit is dated today unless asOf is
// given. replaced reports whether an earlier baseline was overwritten.
func (t *Tracker) SetBaseline(p models.Profile, missed map[string]int, asOf string, today time.Time) (baseline models.AttendanceBaseline, replaced bool, err error) {
	for subject, n := range missed {
		if n < 0 {
			return models.AttendanceBaseline{}, false, fmt.Errorf("%w: %s=%d", ErrNegativeMissed, subject, n)
		}
	}

	prev, err := t.Baseline(p)
	if err != nil {
		return models.AttendanceBaseline{}, false, err
	}

	if asOf == "" {
		if prev == nil {
			asOf = routine.DateKey(today.AddDate(0, 0, -1))
		} else {
			asOf = routine.DateKey(today)
		}
	}

	now := t.now()
	b := models.AttendanceBaseline{
		Email:     p.Email,
		Term:      p.Term,
		AsOf:      asOf,
		Missed:    maps.Clone(missed),
		Section:   p.Section,
		Subjects:  slices.Clone(p.Subjects),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if b.Missed == nil {
		b.Missed = map[string]int{}
	}
	if prev != nil {
		b.ID = prev.ID
		b.CreatedAt = prev.CreatedAt
	}

	if err := t.store.SaveBaseline(b); err != nil {
		return b, prev != nil, fmt.Errorf("saving baseline: %w", err)
	}
	logger.Info("attendance baseline saved", "email", p.Email, "term", p.Term, "as_of", asOf, "replaced", prev != nil)
	return b, prev != nil, nil
}

// Mark records the classes attended on a day. An empty selection is a
// valid submission meaning nothing was attended.
func (t *Tracker) Mark(email, day string, selections []models.Selection, notes string) (models.DaySelections, error) {
	prev, err := t.Day(email, day)
	if err != nil {
		return models.DaySelections{}, err
	}

	now := t.now()
	rec := models.DaySelections{
		Email:      models.NormalizeEmail(email),
		Day:        day,
		Selections: selections,
		Notes:      notes,
		Submitted:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if rec.Selections == nil {
		rec.Selections = []models.Selection{}
	}
	if prev != nil {
		rec.ID = prev.ID
		rec.CreatedAt = prev.CreatedAt
	}
	if err := t.store.SaveDay(rec); err != nil {
		return rec, fmt.Errorf("saving attendance for %s: %w", day, err)
	}
	logger.Info("attendance marked", "email", rec.Email, "day", day, "selections", len(rec.Selections))
	return rec, nil
}

// History lists the viewer's submitted days within a window.
func (t *Tracker) History(email string, w Window) ([]models.DaySelections, error) {
	days, err := t.store.ListDays(email, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("listing attendance: %w", err)
	}
	return days, nil
}

// SelectionsFor turns the attended classes of a day into selections.
func SelectionsFor(classes []models.ScheduleEntry) []models.Selection {
	out := make([]models.Selection, 0, len(classes))
	for _, e := range classes {
		out = append(out, models.Selection{Subject: e.Subject, Time: e.Time})
	}
	return out
}
