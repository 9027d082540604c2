package tracking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/cohort/internal/attendance"
	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/utils"
	"github.com/julianstephens/cohort/internal/validation"
)

type session struct {
	profile  models.Profile
	settings models.RoutineSettings
	now      time.Time
	result   schedule.Result
	tracker  *attendance.Tracker
}

func open(ctx *cli.Context, withSchedule bool) (session, error) {
	p, err := ctx.Profile()
	if err != nil {
		return session{}, err
	}
	settings, loc, err := ctx.Settings()
	if err != nil {
		return session{}, err
	}
	s := session{
		profile:  p,
		settings: settings,
		now:      ctx.Today(loc),
		tracker:  attendance.NewTracker(ctx.Store).WithClock(func() time.Time { return ctx.Today(loc) }),
	}
	if withSchedule {
		if s.result, err = ctx.Schedule(context.Background(), p, settings, loc); err != nil {
			return session{}, err
		}
		if msg := s.result.Message(); msg != "" && s.result.Empty() {
			ctx.Println(msg)
			ctx.Println()
		}
	}
	return s, nil
}

type ReportCmd struct{}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	s, err := open(ctx, true)
	if err != nil {
		return err
	}
	report, err := s.tracker.Report(s.profile, s.settings, s.result.ByDate, s.now)
	if err != nil {
		return err
	}

	ctx.Printf("Attendance %s to %s (%s)\n", report.Window.Start, report.Window.End, windowSource(report.Window.Source))
	if len(report.Rows) == 0 {
		ctx.Println("No classes scheduled in this window.")
		return nil
	}
	ctx.Println(ReportTable(report))
	return nil
}

func windowSource(s attendance.StartSource) string {
	switch s {
	case attendance.StartTerm:
		return "since term start"
	case attendance.StartBaseline:
		return "since baseline"
	default:
		return "this month"
	}
}

// ReportTable renders a report with a totals footer.
func ReportTable(r attendance.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Subject", "Scheduled", "Attended", "Missed", "%").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			if row == len(r.Rows) {
				style = style.Bold(true)
			}
			return style
		})
	for _, row := range r.Rows {
		t.Row(row.Subject, strconv.Itoa(row.Scheduled), strconv.Itoa(row.Attended), strconv.Itoa(row.Missed), strconv.Itoa(row.Pct()))
	}
	t.Row("Total", strconv.Itoa(r.Totals.Scheduled), strconv.Itoa(r.Totals.Attended), strconv.Itoa(r.Totals.Missed), strconv.Itoa(r.Totals.AveragePct))
	return t.String()
}

type BaselineSetCmd struct {
	Missed map[string]int `help:"Classes missed per subject before tracking began, e.g. --missed ERP=2." mapsep:","`
	AsOf   string         `help:"Date the counts are valid up to (YYYY-MM-DD)."`
	Yes    bool           `short:"y" help:"Overwrite an existing baseline without asking."`
}

func (c *BaselineSetCmd) Run(ctx *cli.Context) error {
	s, err := open(ctx, false)
	if err != nil {
		return err
	}
	prev, err := s.tracker.Baseline(s.profile)
	if err != nil {
		return err
	}

	asOf := c.AsOf
	if asOf != "" {
		t, err := utils.ResolveDay(asOf, s.now)
		if err != nil {
			return err
		}
		asOf = routine.DateKey(t)
	}

	missed := c.Missed
	if len(missed) == 0 {
		if !ctx.Interactive {
			return errors.New("no counts given. Use --missed SUBJECT=N")
		}
		if missed, err = baselineForm(s.profile, prev); err != nil {
			return err
		}
	}

	if missed, err = canonicalKeys(missed, s.profile.Subjects); err != nil {
		return err
	}

	if prev != nil {
		if !c.Yes && !ctx.Confirm(fmt.Sprintf("Replace the baseline dated %s?", prev.AsOf)) {
			ctx.Println("Baseline unchanged.")
			return nil
		}
		ctx.PerformAutomaticBackup()
	}

	b, replaced, err := s.tracker.SetBaseline(s.profile, missed, asOf, s.now)
	if err != nil {
		return err
	}
	verb := "saved"
	if replaced {
		verb = "updated"
	}
	ctx.Printf("✓ Baseline %s for term %d (as of %s)\n", verb, b.Term, b.AsOf)
	printMissed(ctx, b)
	return nil
}

// canonicalKeys maps each subject to the viewer's spelling of it. Subjects
// the viewer does not take are rejected with suggestions.
func canonicalKeys(missed map[string]int, subjects []string) (map[string]int, error) {
	if len(subjects) == 0 {
		return missed, nil
	}
	out := make(map[string]int, len(missed))
	for subject, n := range missed {
		idx := slices.IndexFunc(subjects, func(s string) bool {
			return strings.EqualFold(s, subject) || routine.SameSubject(s, subject)
		})
		if idx < 0 {
			msg := fmt.Sprintf("%q is not one of your subjects", subject)
			if hints := validation.Suggest(subject, subjects); len(hints) > 0 {
				msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
			}
			return nil, errors.New(msg)
		}
		out[subjects[idx]] += n
	}
	return out, nil
}

func baselineForm(p models.Profile, prev *models.AttendanceBaseline) (map[string]int, error) {
	if len(p.Subjects) == 0 {
		return nil, errors.New("pick your subjects with 'cohort profile set' first")
	}
	values := make([]string, len(p.Subjects))
	fields := make([]huh.Field, len(p.Subjects))
	for i, subject := range p.Subjects {
		values[i] = strconv.Itoa(prev.MissedFor(subject))
		fields[i] = huh.NewInput().
			Title(subject).
			Description("Classes missed so far").
			Value(&values[i]).
			Validate(func(v string) error {
				n, err := strconv.Atoi(strings.TrimSpace(v))
				if err != nil || n < 0 {
					return errors.New("enter a whole number of 0 or more")
				}
				return nil
			})
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(values))
	for i, v := range values {
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		out[p.Subjects[i]] = n
	}
	return out, nil
}

type BaselineShowCmd struct{}

func (c *BaselineShowCmd) Run(ctx *cli.Context) error {
	s, err := open(ctx, false)
	if err != nil {
		return err
	}
	b, err := s.tracker.Baseline(s.profile)
	if err != nil {
		return err
	}
	if b == nil {
		ctx.Printf("No baseline for term %d. Set one with 'cohort attendance baseline set'.\n", s.profile.Term)
		return nil
	}
	ctx.Printf("Baseline for term %d (as of %s, section %s)\n", b.Term, b.AsOf, b.Section)
	printMissed(ctx, *b)
	return nil
}

func printMissed(ctx *cli.Context, b models.AttendanceBaseline) {
	subjects := make([]string, 0, len(b.Missed))
	for s := range b.Missed {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	for _, s := range subjects {
		ctx.Printf("  %-32s %d missed\n", s, b.Missed[s])
	}
}

// MarkCmd records which of a day's classes the viewer attended. Only
// classes are listed; exams and submissions are not counted.
type MarkCmd struct {
	Day      string   `arg:"" optional:"" help:"Day to mark: YYYY-MM-DD, today, yesterday or -N. Defaults to today."`
	Attended []string `help:"Subjects attended, comma separated."`
	All      bool     `help:"Mark every class of the day as attended."`
	None     bool     `help:"Submit the day with no classes attended."`
	Notes    string   `help:"Free-form note stored with the day."`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	s, err := open(ctx, true)
	if err != nil {
		return err
	}
	day, err := utils.ResolveDay(c.Day, s.now)
	if err != nil {
		return err
	}
	if day.After(s.now) {
		return fmt.Errorf("cannot mark attendance for %s before it happens", routine.DateKey(day))
	}
	key := routine.DateKey(day)

	entries := schedule.Day(s.result.ByDate, key)
	classes := schedule.Classes(entries)

	var attended []models.ScheduleEntry
	switch {
	case c.All:
		attended = classes
	case c.None:
	case len(c.Attended) > 0:
		if attended, err = pick(classes, c.Attended); err != nil {
			return err
		}
	case ctx.Interactive:
		prev, err := s.tracker.Day(s.profile.Email, key)
		if err != nil {
			return err
		}
		if attended, err = markForm(day, entries, classes, prev); err != nil {
			return err
		}
	default:
		return errors.New("use --attended, --all or --none when not running in a terminal")
	}

	rec, err := s.tracker.Mark(s.profile.Email, key, attendance.SelectionsFor(attended), c.Notes)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Attendance saved for %s: %d of %d classes attended\n", rec.Day, len(rec.Selections), len(classes))
	for _, e := range entries {
		if !e.IsClass() {
			ctx.Printf("  %s %s: not counted\n", e.Type.Label(), e.Subject)
		}
	}
	return nil
}

// pick selects the classes whose subject matches one of names.
func pick(classes []models.ScheduleEntry, names []string) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	var known []string
	for _, e := range classes {
		known = append(known, e.Subject)
	}
	for _, name := range names {
		found := false
		for _, e := range classes {
			if strings.EqualFold(e.Subject, name) || routine.SameSubject(e.Subject, name) {
				if !slices.Contains(out, e) {
					out = append(out, e)
				}
				found = true
			}
		}
		if !found {
			msg := fmt.Sprintf("no %q class on this day", name)
			if hints := validation.Suggest(name, known); len(hints) > 0 {
				msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
			}
			return nil, errors.New(msg)
		}
	}
	return out, nil
}

func markForm(day time.Time, entries, classes []models.ScheduleEntry, prev *models.DaySelections) ([]models.ScheduleEntry, error) {
	var notCounted []string
	for _, e := range entries {
		if !e.IsClass() {
			notCounted = append(notCounted, e.Subject+" ("+e.Type.Label()+")")
		}
	}
	desc := "Leave everything unticked if you attended nothing."
	if len(notCounted) > 0 {
		desc += "\nNot counted: " + strings.Join(notCounted, ", ")
	}

	if len(classes) == 0 {
		confirm := true
		err := huh.NewConfirm().
			Title("No classes on " + day.Format("Mon, 02 Jan") + ". Submit anyway?").
			Description(desc).
			Value(&confirm).
			Run()
		if err != nil {
			return nil, err
		}
		if !confirm {
			return nil, errors.New("attendance not submitted")
		}
		return nil, nil
	}

	opts := make([]huh.Option[int], len(classes))
	for i, e := range classes {
		opts[i] = huh.NewOption(e.Time+"  "+e.Subject, i)
		if prev != nil && slices.Contains(prev.Selections, models.Selection{Subject: e.Subject, Time: e.Time}) {
			opts[i] = opts[i].Selected(true)
		}
	}
	var picked []int
	err := huh.NewMultiSelect[int]().
		Title("Classes attended on " + day.Format("Mon, 02 Jan")).
		Description(desc).
		Options(opts...).
		Value(&picked).
		Run()
	if err != nil {
		return nil, err
	}
	slices.Sort(picked)
	out := make([]models.ScheduleEntry, 0, len(picked))
	for _, i := range picked {
		out = append(out, classes[i])
	}
	return out, nil
}

// HistoryCmd lists the days marked in a month.
type HistoryCmd struct {
	Month string `arg:"" optional:"" help:"Month to list (YYYY-MM). Defaults to the current month."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	s, err := open(ctx, false)
	if err != nil {
		return err
	}
	year, month, err := utils.ResolveMonth(c.Month, s.now)
	if err != nil {
		return err
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.now.Location())
	w := attendance.Window{Start: routine.DateKey(first), End: routine.DateKey(first.AddDate(0, 1, -1))}

	days, err := s.tracker.History(s.profile.Email, w)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		ctx.Printf("No attendance marked in %s %d.\n", month, year)
		return nil
	}
	ctx.Printf("Attendance marked in %s %d:\n", month, year)
	for _, d := range days {
		subjects := make([]string, 0, len(d.Selections))
		for _, sel := range d.Selections {
			subjects = append(subjects, sel.Subject)
		}
		line := strings.Join(subjects, ", ")
		if line == "" {
			line = "(none attended)"
		}
		ctx.Printf("  %s  %s\n", d.Day, line)
		if d.Notes != "" {
			ctx.Printf("              note: %s\n", d.Notes)
		}
	}
	return nil
}
