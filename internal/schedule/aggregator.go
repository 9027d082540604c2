package schedule

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/cohort/internal/logger"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
)

// ErrInvalidProfile is returned by Load when the profile cannot select a
// routine layout. It is the only error Load returns.
var ErrInvalidProfile = errors.New("invalid profile")

// Result is a loaded schedule. ByDate is never nil; Outcome says why it may
// be empty and Err keeps the underlying fetch error for logs.
type Result struct {
	Cohort    models.Cohort
	URL       string
	ByDate    models.ByDate
	Outcome   routine.Outcome
	HeaderRow int
	Err       error
	FetchedAt time.Time
}

// Empty reports whether the schedule has no entries.
func (r Result) Empty() bool {
	return r.ByDate.Entries() == 0
}

// Message is the neutral status line shown above an empty or unreadable
// schedule. It is "" when there is nothing to explain.
func (r Result) Message() string {
	switch r.Outcome {
	case routine.OutcomeFetchFailed:
		if errors.Is(r.Err, ErrNoSource) || r.URL == "" {
			return fmt.Sprintf("No routine link is configured for the %s cohort yet.", r.Cohort)
		}
		return "Couldn't read the routine automatically. Open it directly: " + r.URL
	case routine.OutcomeNoHeaderFound:
		return "Routine format not recognized."
	case routine.OutcomeEmptyGrid:
		return "The routine sheet is empty."
	}
	if r.Empty() {
		return "No classes found for your section."
	}
	return ""
}

// Aggregator is the single path from a profile to its timetable. It keeps
// no state between loads.
type Aggregator struct {
	fetcher Fetcher
	parser  routine.Parser
	now     func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLocation parses routine dates in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		a.parser.Dates.Location = loc
	}
}

// WithClock replaces the wall clock used for year-less dates and FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
		a.parser.Dates.Now = now
	}
}

// New returns an Aggregator reading through f.
func New(f Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{fetcher: f, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateViewer checks that a profile names a known cohort and one of its
// sections.
func ValidateViewer(p models.Profile) error {
	if !p.Cohort.Valid() {
		return fmt.Errorf("%w: unknown cohort %q", ErrInvalidProfile, p.Cohort)
	}
	if !slices.Contains(p.Cohort.Sections(), p.Section) {
		return fmt.Errorf("%w: section %q is not part of the %s cohort", ErrInvalidProfile, p.Section, p.Cohort)
	}
	return nil
}

// Load fetches and parses the routine for a profile. Fetch and format
// problems are reported through Result.Outcome, never as an error.
func (a *Aggregator) Load(ctx context.Context, p models.Profile, s models.RoutineSettings) (Result, error) {
	if err := ValidateViewer(p); err != nil {
		return Result{ByDate: models.ByDate{}}, err
	}

	url := s.URLFor(p.Cohort)
	res := Result{
		Cohort:    p.Cohort,
		URL:       url,
		ByDate:    models.ByDate{},
		HeaderRow: -1,
		FetchedAt: a.now(),
	}

	data, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Warn("routine fetch failed", "cohort", p.Cohort, "url", url, "error", err)
		res.Outcome = routine.OutcomeFetchFailed
		res.Err = err
		return res, nil
	}

	grid, err := routine.ReadGrid(bytes.NewReader(data))
	if err != nil {
		logger.Warn("routine csv unreadable", "cohort", p.Cohort, "error", err)
		res.Outcome = routine.OutcomeFetchFailed
		res.Err = err
		return res, nil
	}

	return a.parse(res, grid, p), nil
}

// LoadGrid parses an already fetched grid for a profile.
func (a *Aggregator) LoadGrid(grid routine.Grid, p models.Profile) (Result, error) {
	if err := ValidateViewer(p); err != nil {
		return Result{ByDate: models.ByDate{}}, err
	}
	res := Result{Cohort: p.Cohort, ByDate: models.ByDate{}, HeaderRow: -1, FetchedAt: a.now()}
	return a.parse(res, grid, p), nil
}

func (a *Aggregator) parse(res Result, grid routine.Grid, p models.Profile) Result {
	viewer := routine.Viewer{Section: p.Section, Subjects: p.Subjects}
	parsed := a.parser.Parse(grid, routine.LayoutFor(p.Cohort), viewer)

	res.ByDate = parsed.ByDate
	res.Outcome = parsed.Outcome
	res.HeaderRow = parsed.HeaderRow

	logger.Debug("routine parsed",
		"cohort", p.Cohort,
		"section", p.Section,
		"outcome", parsed.Outcome,
		"header_row", parsed.HeaderRow,
		"slots", len(parsed.Slots),
		"dates", parsed.ByDate.Dates(),
		"entries", parsed.ByDate.Entries(),
	)
	return res
}
