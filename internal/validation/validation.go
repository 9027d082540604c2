package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidField       ConflictType = "invalid_field"
	ConflictSectionNotInCohort ConflictType = "section_not_in_cohort"
	ConflictDuplicateSubject   ConflictType = "duplicate_subject"
	ConflictUnknownSubject     ConflictType = "unknown_subject"
	ConflictInvalidTimezone    ConflictType = "invalid_timezone"
	ConflictMissingRoutine     ConflictType = "missing_routine"
	ConflictTermStartInFuture  ConflictType = "term_start_in_future"
)

const maxSuggestions = 3

// Conflict is one problem found in a profile or in routine settings.
type Conflict struct {
	Type        ConflictType
	Field       string
	Description string
	Suggestions []string // "did you mean" candidates for unknown subjects
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Has reports whether a conflict of type t was found.
func (vr *ValidationResult) Has(t ConflictType) bool {
	return slices.ContainsFunc(vr.Conflicts, func(c Conflict) bool { return c.Type == t })
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s", c.Description)
		if len(c.Suggestions) > 0 {
			fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoteAll(c.Suggestions), ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Err returns nil when there are no conflicts.
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	return errors.New(strings.TrimSuffix(vr.FormatReport(), "\n"))
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks profiles and routine settings.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateProfile checks field formats, that the section exists in the
// cohort, and that each picked subject is unique. When vocabulary is given
// (subjects found in the cohort's routine), picks that match nothing in it
// are reported with suggestions.
func (v *Validator) ValidateProfile(p models.Profile, vocabulary []string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.structConflicts(&result, p)

	if p.Cohort.Valid() && p.Section != "" && !slices.Contains(p.Cohort.Sections(), p.Section) {
		result.add(Conflict{
			Type:        ConflictSectionNotInCohort,
			Field:       "section",
			Description: fmt.Sprintf("Section %s does not exist in the %s cohort", p.Section, p.Cohort),
		})
	}

	seen := map[string]string{}
	for _, s := range p.Subjects {
		key := strings.ToUpper(routine.Canonicalize(s))
		if key == "" {
			continue
		}
		if prev, dup := seen[key]; dup {
			result.add(Conflict{
				Type:        ConflictDuplicateSubject,
				Field:       "subjects",
				Description: fmt.Sprintf("Subject %q duplicates %q", s, prev),
			})
			continue
		}
		seen[key] = s
	}

	if len(vocabulary) == 0 {
		return result
	}
	for _, s := range p.Subjects {
		if slices.ContainsFunc(vocabulary, func(known string) bool { return routine.SameSubject(s, known) }) {
			continue
		}
		result.add(Conflict{
			Type:        ConflictUnknownSubject,
			Field:       "subjects",
			Description: fmt.Sprintf("Subject %q does not appear in the routine", s),
			Suggestions: Suggest(s, vocabulary),
		})
	}
	return result
}

// ValidateSettings checks URL, term start, reminder and timezone fields.
// today bounds term starts; a start in the future is flagged since the
// attendance window would ignore it.
func (v *Validator) ValidateSettings(s models.RoutineSettings, today time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.structConflicts(&result, s)

	for _, c := range []models.Cohort{models.CohortSenior, models.CohortJunior} {
		if s.URLFor(c) == "" {
			result.add(Conflict{
				Type:        ConflictMissingRoutine,
				Field:       string(c) + "_routine_url",
				Description: fmt.Sprintf("No routine link is configured for the %s cohort", c),
			})
		}
		start := s.TermStartFor(c)
		if start == "" {
			continue
		}
		if t, err := time.ParseInLocation("2006-01-02", start, today.Location()); err == nil && t.After(today) {
			result.add(Conflict{
				Type:        ConflictTermStartInFuture,
				Field:       string(c) + "_term_start",
				Description: fmt.Sprintf("The %s term start %s is in the future", c, start),
			})
		}
	}

	if tz := s.Timezone; tz != "" && tz != "Local" {
		if _, err := time.LoadLocation(tz); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidTimezone,
				Field:       "timezone",
				Description: fmt.Sprintf("Unknown timezone %q", tz),
			})
		}
	}
	return result
}

func (v *Validator) structConflicts(result *ValidationResult, s any) {
	err := v.v.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.add(Conflict{Type: ConflictInvalidField, Description: err.Error()})
		return
	}
	for _, fe := range verrs {
		result.add(Conflict{
			Type:        ConflictInvalidField,
			Field:       fe.Field(),
			Description: describe(fe),
		})
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s %q is not a valid email address", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s %q is not a valid URL", fe.Field(), fe.Value())
	case "datetime":
		return fmt.Sprintf("%s %q must use the format %s", fe.Field(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
	}
}

// Suggest returns up to three vocabulary entries that fuzzily match word,
// best first.
func Suggest(word string, vocabulary []string) []string {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	var out []string
	for _, m := range fuzzy.Find(strings.ToLower(word), lower(vocabulary)) {
		out = append(out, vocabulary[m.Index])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
