package system

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cohort/internal/attendance"
	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/tui"
)

type TuiCmd struct{}

// Deps builds the TUI dependencies for the viewer.
func (c *TuiCmd) Deps(ctx *cli.Context) (tui.Deps, error) {
	p, err := ctx.Profile()
	if err != nil {
		return tui.Deps{}, err
	}
	s, loc, err := ctx.Settings()
	if err != nil {
		return tui.Deps{}, err
	}
	now := func() time.Time { return ctx.Today(loc) }
	return tui.Deps{
		Aggregator: ctx.Aggregator(loc),
		Tracker:    attendance.NewTracker(ctx.Store).WithClock(now),
		Profile:    p,
		Settings:   s,
		Now:        now,
	}, nil
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	deps, err := c.Deps(ctx)
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
