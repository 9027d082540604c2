package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/profile"
	"github.com/julianstephens/cohort/internal/storage"
	"github.com/julianstephens/cohort/internal/validation"
)

type ProfileSetCmd struct {
	Cohort   string   `help:"Cohort (senior or junior)."`
	Section  string   `help:"Section letter (E, F or G)."`
	Subjects []string `help:"Comma separated subjects you take."`
	Clear    bool     `help:"Clear the picked subjects."`
}

func (c *ProfileSetCmd) update() (profile.Update, error) {
	var u profile.Update
	if c.Cohort != "" {
		cohort := models.Cohort(strings.ToLower(strings.TrimSpace(c.Cohort)))
		if !cohort.Valid() {
			return u, fmt.Errorf("invalid cohort %q: use senior or junior", c.Cohort)
		}
		u.Cohort = &cohort
	}
	if c.Section != "" {
		section, ok := models.ParseSection(c.Section)
		if !ok {
			return u, fmt.Errorf("invalid section %q: use E, F or G", c.Section)
		}
		u.Section = &section
	}
	if c.Clear {
		empty := []string{}
		u.Subjects = &empty
	} else if len(c.Subjects) > 0 {
		subjects := c.Subjects
		u.Subjects = &subjects
	}
	return u, nil
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	email, err := ctx.ViewerEmail()
	if err != nil {
		return err
	}
	settings, loc, err := ctx.Settings()
	if err != nil {
		return err
	}

	current, err := ctx.Store.GetProfile(email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	u, err := c.update()
	if err != nil {
		return err
	}
	if u.Cohort == nil && u.Section == nil && u.Subjects == nil {
		if !ctx.Interactive {
			return errors.New("no changes specified. Use --cohort, --section and --subjects")
		}
		if u, err = profileForm(ctx, current, settings, loc); err != nil {
			return err
		}
	}

	probe := current
	if u.Cohort != nil {
		probe.Cohort = *u.Cohort
	}
	if u.Section != nil {
		probe.Section = *u.Section
	}
	var vocab []string
	if probe.Cohort.Valid() && probe.Section != "" {
		vocab = ctx.Vocabulary(context.Background(), probe, settings, loc)
	}

	p, result, err := ctx.Profiles().Save(email, u, vocab)
	if errors.Is(err, profile.ErrLocked) {
		return fmt.Errorf("%w; use 'cohort profile request-change' instead", err)
	}
	if err != nil {
		return err
	}

	ctx.Printf("✓ Profile saved for %s\n", p.Email)
	printProfile(ctx, p)
	if result.HasConflicts() {
		ctx.Println()
		ctx.Print(result.FormatReport())
	}
	return nil
}

// profileForm asks for cohort, section and subjects on a terminal.
func profileForm(ctx *cli.Context, current models.Profile, settings models.RoutineSettings, loc *time.Location) (profile.Update, error) {
	cohort := string(current.Cohort)
	if cohort == "" {
		cohort = string(models.CohortSenior)
	}
	err := huh.NewSelect[string]().
		Title("Cohort").
		Options(huh.NewOption("Senior", "senior"), huh.NewOption("Junior", "junior")).
		Value(&cohort).
		Run()
	if err != nil {
		return profile.Update{}, err
	}

	c := models.Cohort(cohort)
	section := string(current.Section)
	var sectionOpts []huh.Option[string]
	for _, s := range c.Sections() {
		sectionOpts = append(sectionOpts, huh.NewOption("Section "+string(s), string(s)))
	}
	if err := huh.NewSelect[string]().Title("Section").Options(sectionOpts...).Value(&section).Run(); err != nil {
		return profile.Update{}, err
	}

	s := models.Section(section)
	probe := models.Profile{Cohort: c, Section: s}
	vocab := ctx.Vocabulary(context.Background(), probe, settings, loc)

	subjects := current.Subjects
	if len(vocab) > 0 {
		opts := huh.NewOptions(vocab...)
		for i := range opts {
			for _, picked := range current.Subjects {
				if strings.EqualFold(picked, opts[i].Value) {
					opts[i] = opts[i].Selected(true)
				}
			}
		}
		err = huh.NewMultiSelect[string]().
			Title("Subjects").
			Description("Pick the subjects you take").
			Options(opts...).
			Filterable(true).
			Value(&subjects).
			Run()
	} else {
		raw := strings.Join(current.Subjects, ", ")
		err = huh.NewInput().
			Title("Subjects").
			Description("Comma separated; the routine could not be read").
			Value(&raw).
			Run()
		subjects = cli.SplitList(raw)
	}
	if err != nil {
		return profile.Update{}, err
	}
	return profile.Update{Cohort: &c, Section: &s, Subjects: &subjects}, nil
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile()
	if err != nil {
		return err
	}
	printProfile(ctx, p)

	if p.IsLockedForTerm(p.Term) {
		remaining, err := ctx.Profiles().Remaining(p)
		if err != nil {
			return err
		}
		ctx.Printf("  Change requests left: %d of %d\n", remaining, constants.MaxChangeRequestsPerTerm)
	}
	return nil
}

func printProfile(ctx *cli.Context, p models.Profile) {
	subjects := strings.Join(p.Subjects, ", ")
	if subjects == "" {
		subjects = "(none)"
	}
	ctx.Printf("  Email:    %s\n", p.Email)
	ctx.Printf("  Cohort:   %s (term %d)\n", p.Cohort, p.Term)
	ctx.Printf("  Section:  %s\n", p.Section)
	ctx.Printf("  Subjects: %s\n", subjects)
	if p.IsLockedForTerm(p.Term) {
		when := ""
		if p.LockedAt != nil {
			when = " on " + p.LockedAt.Local().Format("2006-01-02")
		}
		ctx.Printf("  Locked:   yes%s\n", when)
	} else {
		ctx.Println("  Locked:   no")
	}
}

type ProfileLockCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ProfileLockCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile()
	if err != nil {
		return err
	}
	if p.IsLockedForTerm(p.Term) {
		ctx.Printf("Profile is already locked for term %d.\n", p.Term)
		return nil
	}

	result := validation.New().ValidateProfile(p, nil)
	if err := result.Err(); err != nil {
		return fmt.Errorf("cannot lock an invalid profile: %w", err)
	}

	ctx.Printf("Locking freezes your section and subjects for term %d.\n", p.Term)
	ctx.Printf("Afterwards you can file at most %d change requests.\n", constants.MaxChangeRequestsPerTerm)
	if !c.Yes && !ctx.Confirm("Lock profile?") {
		ctx.Println("Lock cancelled.")
		return nil
	}

	p, err = ctx.Profiles().Lock(p.Email)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Profile locked for term %d\n", p.LockTerm)
	return nil
}

type ProfileRequestChangeCmd struct {
	Section  string   `help:"Requested section letter. Defaults to the current section."`
	Subjects []string `help:"Requested subjects, comma separated. Defaults to the current subjects."`
}

func (c *ProfileRequestChangeCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile()
	if err != nil {
		return err
	}

	to := p.Choice()
	if c.Section != "" {
		section, ok := models.ParseSection(c.Section)
		if !ok {
			return fmt.Errorf("invalid section %q: use E, F or G", c.Section)
		}
		to.Section = section
	}
	if len(c.Subjects) > 0 {
		to.Subjects = c.Subjects
	}

	svc := ctx.Profiles()
	req, err := svc.RequestChange(p.Email, to)
	switch {
	case errors.Is(err, profile.ErrNotLocked):
		return fmt.Errorf("%w; edit it directly with 'cohort profile set'", err)
	case errors.Is(err, profile.ErrLimitReached):
		return fmt.Errorf("%w (%d per term); ask an admin to reset your requests", err, constants.MaxChangeRequestsPerTerm)
	case err != nil:
		return err
	}

	remaining, err := svc.Remaining(p)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Change request filed: %s\n", req.ID)
	ctx.Printf("  %s -> %s\n", formatChoice(req.From), formatChoice(req.To))
	ctx.Printf("  Requests left this term: %d\n", remaining)
	return nil
}

type ProfileRequestsCmd struct{}

func (c *ProfileRequestsCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile()
	if err != nil {
		return err
	}
	reqs, err := ctx.Profiles().Requests(p.Email)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		ctx.Printf("No change requests for term %d.\n", p.Term)
		return nil
	}

	ctx.Printf("Change requests for term %d:\n\n", p.Term)
	for _, r := range reqs {
		ctx.Printf("  %s  %-8s  %s\n", r.ID, r.Status, r.CreatedAt.Local().Format("2006-01-02 15:04"))
		ctx.Printf("      %s -> %s\n", formatChoice(r.From), formatChoice(r.To))
	}
	return nil
}

// ProfileDecideCmd approves or rejects a pending change request.
type ProfileDecideCmd struct {
	ID      string `arg:"" help:"Change request ID."`
	Approve bool   `help:"Approve the request and apply it." xor:"decision"`
	Reject  bool   `help:"Reject the request." xor:"decision"`
}

func (c *ProfileDecideCmd) Run(ctx *cli.Context) error {
	email, err := ctx.ViewerEmail()
	if err != nil {
		return err
	}
	if c.Approve == c.Reject {
		return errors.New("pass exactly one of --approve or --reject")
	}
	req, err := ctx.Profiles().Decide(email, c.ID, c.Approve)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Change request %s %s\n", req.ID, req.Status)
	return nil
}

// ProfileResetRequestsCmd lets the viewer file a fresh set of change
// requests for the current term.
type ProfileResetRequestsCmd struct{}

func (c *ProfileResetRequestsCmd) Run(ctx *cli.Context) error {
	email, err := ctx.ViewerEmail()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	p, err := ctx.Profiles().ResetRequests(email)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Change requests reset for %s (term %d, version %d)\n", p.Email, p.Term, p.ResetVersion(p.Term))
	return nil
}

func formatChoice(c models.ProfileChoice) string {
	subjects := strings.Join(c.Subjects, ", ")
	if subjects == "" {
		subjects = "no subjects"
	}
	return fmt.Sprintf("section %s: %s", c.Section, subjects)
}
