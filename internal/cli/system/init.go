package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
	"github.com/julianstephens/cohort/internal/storage/postgres"
	"github.com/julianstephens/cohort/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			if abs, err := filepath.Abs(dbPath); err == nil {
				dbPath = abs
			}
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized cohort storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	var src storage.Provider
	if postgres.IsConnString(source) {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use the keyring, environment variables or .pgpass instead")
			}
			return err
		}
		src = postgres.New(source)
	} else {
		src = sqlite.NewStore(source)
	}

	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Println("  Copying routine settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(fullPatch(settings)); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Copying profiles...")
	profiles, err := src.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to get profiles from source: %w", err)
	}

	var baselines, days, requests int
	for _, p := range profiles {
		if err := ctx.Store.SaveProfile(p); err != nil {
			return fmt.Errorf("failed to save profile %s: %w", p.Email, err)
		}
		term := settings.TermFor(p.Cohort)

		b, err := src.GetBaseline(p.Email, term)
		switch {
		case err == nil:
			if err := ctx.Store.SaveBaseline(b); err != nil {
				return fmt.Errorf("failed to save baseline for %s: %w", p.Email, err)
			}
			baselines++
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("failed to get baseline for %s: %w", p.Email, err)
		}

		records, err := src.ListDays(p.Email, "0000-01-01", "9999-12-31")
		if err != nil {
			return fmt.Errorf("failed to get attendance for %s: %w", p.Email, err)
		}
		for _, d := range records {
			if err := ctx.Store.SaveDay(d); err != nil {
				return fmt.Errorf("failed to save attendance %s for %s: %w", d.Day, p.Email, err)
			}
		}
		days += len(records)

		reqs, err := src.ListChangeRequests(p.Email, term)
		if err != nil {
			return fmt.Errorf("failed to get change requests for %s: %w", p.Email, err)
		}
		for _, r := range reqs {
			if err := ctx.Store.AddChangeRequest(r); err != nil {
				return fmt.Errorf("failed to add change request %s: %w", r.ID, err)
			}
		}
		requests += len(reqs)
	}
	ctx.Printf("    Copied %d profiles\n", len(profiles))
	ctx.Printf("    Copied %d baselines, %d attendance days, %d change requests\n", baselines, days, requests)
	return nil
}

// fullPatch turns stored settings into a patch touching every field.
func fullPatch(s models.RoutineSettings) models.SettingsPatch {
	return models.SettingsPatch{
		SeniorRoutineURL: &s.SeniorRoutineURL,
		JuniorRoutineURL: &s.JuniorRoutineURL,
		RoutineURL:       &s.RoutineURL,
		SeniorTerm:       &s.SeniorTerm,
		JuniorTerm:       &s.JuniorTerm,
		SeniorTermStart:  &s.SeniorTermStart,
		JuniorTermStart:  &s.JuniorTermStart,
		ReminderTime:     &s.ReminderTime,
		Timezone:         &s.Timezone,
		UpdatedBy:        s.UpdatedBy,
	}
}
