package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/validation"
)

// RoutineSetCmd edits the shared routine settings. Only the flags given are
// written.
type RoutineSetCmd struct {
	SeniorURL       *string `name:"senior-url" help:"Routine sheet for the senior cohort (Google Sheets link, CSV URL or file)."`
	JuniorURL       *string `name:"junior-url" help:"Routine sheet for the junior cohort."`
	URL             *string `name:"url" help:"Legacy routine sheet used by a cohort without its own link."`
	SeniorTerm      *int    `help:"Current senior term number."`
	JuniorTerm      *int    `help:"Current junior term number."`
	SeniorTermStart *string `help:"First day of the senior term (YYYY-MM-DD)."`
	JuniorTermStart *string `help:"First day of the junior term (YYYY-MM-DD)."`
	Reminder        *string `help:"Attendance reminder time (HH:MM)."`
	Timezone        *string `help:"IANA timezone routine dates are read in, or Local."`
}

func (c *RoutineSetCmd) patch(updatedBy string) models.SettingsPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	return models.SettingsPatch{
		SeniorRoutineURL: trim(c.SeniorURL),
		JuniorRoutineURL: trim(c.JuniorURL),
		RoutineURL:       trim(c.URL),
		SeniorTerm:       c.SeniorTerm,
		JuniorTerm:       c.JuniorTerm,
		SeniorTermStart:  trim(c.SeniorTermStart),
		JuniorTermStart:  trim(c.JuniorTermStart),
		ReminderTime:     trim(c.Reminder),
		Timezone:         trim(c.Timezone),
		UpdatedBy:        updatedBy,
	}
}

func (c *RoutineSetCmd) Run(ctx *cli.Context) error {
	current, loc, err := ctx.Settings()
	if err != nil {
		return err
	}

	patch := c.patch(models.NormalizeEmail(ctx.Email))
	if patch.Empty() {
		ctx.Println("No changes specified. Use 'cohort routine show' to view settings or flags to update them.")
		return nil
	}

	result := validation.New().ValidateSettings(patch.Apply(current), ctx.Today(loc))
	if result.Has(validation.ConflictInvalidField) || result.Has(validation.ConflictInvalidTimezone) {
		return result.Err()
	}

	if err := ctx.Store.SaveSettings(patch); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Routine settings updated successfully.")
	if result.HasConflicts() {
		ctx.Print(result.FormatReport())
	}
	return nil
}

type RoutineShowCmd struct{}

func (c *RoutineShowCmd) Run(ctx *cli.Context) error {
	s, _, err := ctx.Settings()
	if err != nil {
		return err
	}

	orNone := func(v string) string {
		if v == "" {
			return "(not set)"
		}
		return v
	}

	ctx.Println("Routine Settings:")
	ctx.Printf("  Senior routine:     %s\n", orNone(s.URLFor(models.CohortSenior)))
	ctx.Printf("  Junior routine:     %s\n", orNone(s.URLFor(models.CohortJunior)))
	if s.RoutineURL != "" {
		ctx.Printf("  Shared (legacy):    %s\n", s.RoutineURL)
	}
	ctx.Printf("  Senior term:        %d (starts %s)\n", s.TermFor(models.CohortSenior), orNone(s.SeniorTermStart))
	ctx.Printf("  Junior term:        %d (starts %s)\n", s.TermFor(models.CohortJunior), orNone(s.JuniorTermStart))
	ctx.Printf("  Reminder time:      %s\n", s.Reminder())
	ctx.Printf("  Timezone:           %s\n", orNone(s.Timezone))
	if !s.UpdatedAt.IsZero() {
		by := s.UpdatedBy
		if by == "" {
			by = "unknown"
		}
		ctx.Printf("\nLast updated %s by %s\n", s.UpdatedAt.Local().Format("2006-01-02 15:04"), by)
	}
	return nil
}
