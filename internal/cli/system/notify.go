package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/cohort/internal/attendance"
	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/logger"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/notifier"
	"github.com/julianstephens/cohort/internal/routine"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/storage"
)

type sender interface {
	Notify(ctx context.Context, text string) error
}

var newSender = func() sender { return notifier.New() }

// NotifyCmd sends the daily attendance reminder. It is meant to run from a
// scheduler every few minutes in the evening.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile()
	if err != nil {
		return err
	}
	settings, loc, err := ctx.Settings()
	if err != nil {
		return err
	}
	now := ctx.Today(loc)

	res, err := ctx.Schedule(context.Background(), p, settings, loc)
	if err != nil {
		return err
	}
	classes := len(schedule.Classes(schedule.Today(res.ByDate, now)))

	day := routine.DateKey(now)
	var rec *models.DaySelections
	if d, err := ctx.Store.GetDay(p.Email, day); err == nil {
		rec = &d
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to get attendance for %s: %w", day, err)
	}

	if !attendance.ReminderDue(now, settings.Reminder(), classes, rec) {
		if c.DryRun {
			ctx.Println("No reminder due.")
		}
		return nil
	}

	msg := notifier.ReminderText(day, classes)
	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}
	if err := newSender().Notify(context.Background(), msg); err != nil {
		logger.Warn("reminder not delivered", "error", err)
		ctx.Printf("Failed to send notification: %v\n", err)
	}
	return nil
}
