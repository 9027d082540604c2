package system

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/cohort/internal/backup"
	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/migration"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/storage"
	"github.com/julianstephens/cohort/internal/storage/postgres"
	"github.com/julianstephens/cohort/internal/utils"
	"github.com/julianstephens/cohort/internal/validation"
	"github.com/julianstephens/cohort/migrations"
)

type DoctorCmd struct {
	Offline bool `help:"Skip fetching the routine sheets."`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	ok := func(name string) { ctx.Printf("✓ %s: OK\n", name) }
	skip := func(name, why string) { ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, why) }
	warn := func(name string, msg string) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %s\n", msg)
	}

	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		fail("Database reachable", err)
	} else {
		ok("Database reachable")
		dbReachable = true
	}

	if dbReachable {
		current, latest, err := schemaVersions(ctx.Store)
		switch {
		case err != nil:
			fail("Schema version", err)
		case current > latest:
			fail("Schema version", fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest))
		case current < latest:
			ok("Schema version")
			fail("Migrations complete", fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest))
		default:
			ok("Schema version")
			ok("Migrations complete")
		}
	} else {
		skip("Schema version", "database not reachable")
		skip("Migrations complete", "database not reachable")
	}

	if _, isPostgres := ctx.Store.(*postgres.Store); isPostgres {
		skip("Backups present", "PostgreSQL storage")
	} else if err := checkBackupsPresent(ctx); err != nil {
		warn("Backups present", err.Error())
	} else {
		ok("Backups present")
	}

	var settings models.RoutineSettings
	if dbReachable {
		s, loc, err := ctx.Settings()
		if err != nil {
			fail("Routine settings", err)
			dbReachable = false
		} else {
			settings = s
			result := validation.New().ValidateSettings(s, ctx.Today(loc))
			switch {
			case result.Has(validation.ConflictInvalidField), result.Has(validation.ConflictInvalidTimezone):
				fail("Routine settings", result.Err())
			case result.HasConflicts():
				warn("Routine settings", result.Err().Error())
			default:
				ok("Routine settings")
			}
		}
	} else {
		skip("Routine settings", "database not reachable")
	}

	if err := checkClockTimezone(ctx, settings); err != nil {
		fail("Clock/timezone", err)
	} else {
		ok("Clock/timezone")
	}

	switch {
	case !dbReachable:
		skip("Routine sources", "database not reachable")
	case cmd.Offline:
		skip("Routine sources", "--offline")
	default:
		for _, probe := range probeSources(ctx, settings) {
			name := fmt.Sprintf("Routine source (%s)", probe.cohort)
			switch {
			case probe.result.URL == "":
				warn(name, probe.result.Message())
			case probe.err != nil:
				fail(name, probe.err)
			case probe.result.Outcome != routine.OutcomeOK:
				fail(name, fmt.Errorf("%s", probe.result.Message()))
			default:
				ok(name)
				ctx.Printf("   %d entries across %d dates (header row %d)\n",
					probe.result.ByDate.Entries(), probe.result.ByDate.Dates(), probe.result.HeaderRow+1)
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.SchemaVersion(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

// schemaVersions returns the applied and the newest embedded schema version.
func schemaVersions(store storage.Provider) (int, int, error) {
	current, err := store.SchemaVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}

	dir, driver := "sqlite", migration.DriverSQLite
	if _, ok := store.(*postgres.Store); ok {
		dir, driver = "postgres", migration.DriverPostgres
	}
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return 0, 0, err
	}
	latest, err := migration.NewRunner(nil, sub, driver).LatestVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'cohort backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context, s models.RoutineSettings) error {
	if _, err := utils.LoadLocation(s.Timezone); err != nil {
		return err
	}
	now := ctx.Today(time.UTC)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

type sourceProbe struct {
	cohort models.Cohort
	result schedule.Result
	err    error
}

// probeSources loads both cohort routines concurrently. Each probe reads
// every subject of section E.
func probeSources(ctx *cli.Context, s models.RoutineSettings) []sourceProbe {
	loc := utils.LocationFromSettings(s)
	agg := ctx.Aggregator(loc)
	cohorts := []models.Cohort{models.CohortSenior, models.CohortJunior}
	probes := make([]sourceProbe, len(cohorts))

	g, gctx := errgroup.WithContext(context.Background())
	for i, c := range cohorts {
		g.Go(func() error {
			viewer := models.Profile{Cohort: c, Section: models.SectionE}
			res, err := agg.Load(gctx, viewer, s)
			probes[i] = sourceProbe{cohort: c, result: res, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return probes
}
