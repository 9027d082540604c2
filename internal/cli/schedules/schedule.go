package schedules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/utils"
)

type loaded struct {
	profile models.Profile
	now     time.Time
	loc     *time.Location
	result  schedule.Result
}

func load(ctx *cli.Context) (loaded, error) {
	p, err := ctx.Profile()
	if err != nil {
		return loaded{}, err
	}
	settings, loc, err := ctx.Settings()
	if err != nil {
		return loaded{}, err
	}
	res, err := ctx.Schedule(context.Background(), p, settings, loc)
	if err != nil {
		return loaded{}, err
	}
	if msg := res.Message(); msg != "" && res.Empty() {
		ctx.Println(msg)
		ctx.Println()
	}
	return loaded{profile: p, now: ctx.Today(loc), loc: loc, result: res}, nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	l, err := load(ctx)
	if err != nil {
		return err
	}
	printDay(ctx, l.now, schedule.Today(l.result.ByDate, l.now))
	return nil
}

type TomorrowCmd struct{}

func (c *TomorrowCmd) Run(ctx *cli.Context) error {
	l, err := load(ctx)
	if err != nil {
		return err
	}
	printDay(ctx, l.now.AddDate(0, 0, 1), schedule.Tomorrow(l.result.ByDate, l.now))
	return nil
}

type DayCmd struct {
	Day string `arg:"" optional:"" help:"Day to show: YYYY-MM-DD, today, tomorrow, yesterday or +N/-N."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	l, err := load(ctx)
	if err != nil {
		return err
	}
	day, err := utils.ResolveDay(c.Day, l.now)
	if err != nil {
		return err
	}
	printDay(ctx, day, schedule.Day(l.result.ByDate, routine.DateKey(day)))
	return nil
}

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	l, err := load(ctx)
	if err != nil {
		return err
	}
	year, month, err := utils.ResolveMonth(c.Month, l.now)
	if err != nil {
		return err
	}
	view := schedule.Month(l.result.ByDate, year, month, l.loc)
	ctx.Print(FormatMonth(view, routine.DateKey(l.now)))
	return nil
}

type ExamsCmd struct {
	All bool `help:"Include exams and submissions that are already past."`
}

func (c *ExamsCmd) Run(ctx *cli.Context) error {
	l, err := load(ctx)
	if err != nil {
		return err
	}
	entries := schedule.Exams(l.result.ByDate)
	if !c.All {
		entries = schedule.Upcoming(entries, l.now)
	}
	if len(entries) == 0 {
		ctx.Println("No upcoming exams or events.")
		return nil
	}

	ctx.Println("Exams & Events:")
	current := ""
	for _, e := range entries {
		if e.Date != current {
			current = e.Date
			ctx.Printf("\n%s\n", formatDate(e.Date, l.loc))
		}
		ctx.Println(formatEntry(e.ScheduleEntry))
	}
	return nil
}

// SubjectsCmd lists the class subjects the routine shows for the viewer's
// cohort and section. Juniors pick their subjects from this list.
type SubjectsCmd struct{}

func (c *SubjectsCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile()
	if err != nil {
		return err
	}
	settings, loc, err := ctx.Settings()
	if err != nil {
		return err
	}
	vocab := ctx.Vocabulary(context.Background(), p, settings, loc)
	if len(vocab) == 0 {
		ctx.Println("No subjects found in the routine.")
		return nil
	}
	ctx.Printf("Subjects in the %s routine for section %s:\n", p.Cohort, p.Section)
	for _, s := range vocab {
		marker := " "
		for _, picked := range p.Subjects {
			if routine.SameSubject(picked, s) || strings.EqualFold(picked, s) {
				marker = "*"
				break
			}
		}
		ctx.Printf("  %s %s\n", marker, s)
	}
	return nil
}

func printDay(ctx *cli.Context, day time.Time, entries []models.ScheduleEntry) {
	classes := len(schedule.Classes(entries))
	noun := "classes"
	if classes == 1 {
		noun = "class"
	}
	ctx.Printf("%s (%d %s)\n", day.Format("Monday, 02 Jan 2006"), classes, noun)
	if len(entries) == 0 {
		ctx.Println("  Nothing scheduled.")
		return
	}
	for _, e := range entries {
		ctx.Println(formatEntry(e))
	}
}

func formatEntry(e models.ScheduleEntry) string {
	line := fmt.Sprintf("  %-15s  %-32s  %s", e.Time, e.Subject, e.Type.Label())
	if e.Room != "" {
		line += "  [" + e.Room + "]"
	}
	return strings.TrimRight(line, " ")
}

func formatDate(key string, loc *time.Location) string {
	t, err := time.ParseInLocation("2006-01-02", key, loc)
	if err != nil {
		return key
	}
	return t.Format("Mon, 02 Jan 2006")
}

// FormatMonth renders a Monday-first calendar. Busy days carry "*" for
// classes and "!" for exams or submissions; today is bracketed.
func FormatMonth(v schedule.MonthView, todayKey string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", v.Month, v.Year)
	for i, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%-6s", name)
	}
	b.WriteByte('\n')
	for _, week := range v.Weeks {
		for i, cell := range week {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatCell(cell, todayKey))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n* classes  ! exams/submissions\n")
	return b.String()
}

func formatCell(c schedule.DayCell, todayKey string) string {
	if !c.InMonth {
		return "      "
	}
	marks := ""
	if c.Classes > 0 {
		marks += "*"
	}
	if c.Exams+c.Subs > 0 {
		marks += "!"
	}
	day := fmt.Sprintf("%2d", c.Date.Day())
	if c.Key == todayKey {
		day = "[" + strings.TrimSpace(day) + "]"
	}
	return fmt.Sprintf("%-6s", day+marks)
}
