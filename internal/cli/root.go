package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/backup"
	"github.com/julianstephens/cohort/internal/constants"
	apperrors "github.com/julianstephens/cohort/internal/errors"
	"github.com/julianstephens/cohort/internal/logger"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/profile"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/storage"
	"github.com/julianstephens/cohort/internal/utils"
)

// ErrNoEmail is returned by commands that act on a viewer when none was given.
var ErrNoEmail = errors.New("no viewer email given")

type Context struct {
	Store   storage.Provider
	Fetcher schedule.Fetcher
	// Email identifies the viewer. It comes from --email or COHORT_EMAIL.
	Email string
	// Interactive is true when stdin and stdout are terminals.
	Interactive bool

	Out io.Writer
	In  io.Reader
	Now func() time.Time
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		if errors.Is(err, backup.ErrNoDatabase) {
			logger.Debug("Automatic backup skipped", "path", c.Store.GetConfigPath())
			return
		}
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Writer returns the command output stream.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Reader returns the command input stream.
func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Writer(), args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

func (c *Context) clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Settings returns the routine settings and the location they configure.
func (c *Context) Settings() (models.RoutineSettings, *time.Location, error) {
	s, err := c.Store.GetSettings()
	if err != nil {
		return models.RoutineSettings{}, time.Local, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, utils.LocationFromSettings(s), nil
}

// Today returns the current time in the configured timezone.
func (c *Context) Today(loc *time.Location) time.Time {
	return c.clock().In(loc)
}

// Profiles returns a profile service over the store.
func (c *Context) Profiles() *profile.Service {
	return profile.New(c.Store).WithClock(c.clock)
}

// ViewerEmail returns the normalized viewer email or ErrNoEmail.
func (c *Context) ViewerEmail() (string, error) {
	email := models.NormalizeEmail(c.Email)
	if email == "" {
		return "", apperrors.WithHint(ErrNoEmail, "pass --email or set "+constants.EnvEmail)
	}
	return email, nil
}

// Profile loads the viewer's profile.
func (c *Context) Profile() (models.Profile, error) {
	email, err := c.ViewerEmail()
	if err != nil {
		return models.Profile{}, err
	}
	p, err := c.Profiles().Get(email)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, apperrors.WithHint(
			fmt.Errorf("no profile for %s", email),
			"run 'cohort profile set --cohort senior --section E --subjects ...' first",
		)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (c *Context) fetcher() schedule.Fetcher {
	if c.Fetcher == nil {
		return schedule.NewSource()
	}
	return c.Fetcher
}

// Aggregator returns a schedule aggregator reading dates in loc.
func (c *Context) Aggregator(loc *time.Location) *schedule.Aggregator {
	return schedule.New(c.fetcher(),
		schedule.WithLocation(loc),
		schedule.WithClock(func() time.Time { return c.clock().In(loc) }),
	)
}

// Schedule loads the routine for p.
func (c *Context) Schedule(ctx context.Context, p models.Profile, s models.RoutineSettings, loc *time.Location) (schedule.Result, error) {
	return c.Aggregator(loc).Load(ctx, p, s)
}

// Vocabulary returns the class subjects the routine lists for a cohort and
// section, ignoring any picked subjects.
func (c *Context) Vocabulary(ctx context.Context, p models.Profile, s models.RoutineSettings, loc *time.Location) []string {
	p.Subjects = nil
	res, err := c.Schedule(ctx, p, s, loc)
	if err != nil {
		return nil
	}
	return schedule.Subjects(res.ByDate)
}

// Confirm asks a yes/no question on the command streams. Anything but
// "y" or "yes" is a no.
func (c *Context) Confirm(question string) bool {
	c.Printf("%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(c.Reader(), &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// SplitList splits a comma separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
