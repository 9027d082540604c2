package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/validation"
)

// ValidateCmd checks the routine settings and, when a viewer is given, their
// profile against the subjects their routine lists.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	settings, loc, err := ctx.Settings()
	if err != nil {
		return err
	}
	v := validation.New()

	ctx.Println("Routine settings:")
	settingsResult := v.ValidateSettings(settings, ctx.Today(loc))
	ctx.Println(settingsResult.FormatReport())

	if ctx.Email == "" {
		return settingsErr(settingsResult)
	}

	p, err := ctx.Profile()
	if err != nil {
		return err
	}
	vocab := ctx.Vocabulary(context.Background(), p, settings, loc)

	ctx.Printf("Profile %s:\n", p.Email)
	profileResult := v.ValidateProfile(p, vocab)
	ctx.Println(profileResult.FormatReport())

	if profileResult.HasConflicts() {
		return fmt.Errorf("profile has %d conflict(s)", len(profileResult.Conflicts))
	}
	return settingsErr(settingsResult)
}

// settingsErr fails only on conflicts that break parsing or time handling.
func settingsErr(r validation.ValidationResult) error {
	if r.Has(validation.ConflictInvalidField) || r.Has(validation.ConflictInvalidTimezone) {
		return fmt.Errorf("routine settings are invalid")
	}
	return nil
}
