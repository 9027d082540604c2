package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/models"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Column lists shared by both SQL stores.
const (
	ProfileColumns       = "email, cohort, section, subjects, term, locked, lock_term, locked_at, reset_versions, updated_at"
	BaselineColumns      = "id, email, term, as_of, missed, section, subjects, created_at, updated_at"
	DayColumns           = "id, email, day, selections, notes, submitted, created_at, updated_at"
	ChangeRequestColumns = "id, email, cohort, term, reset_version, from_choice, to_choice, status, created_at, updated_at"
)

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// FormatTime renders t as stored text. The zero time is stored as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseTime parses stored text written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ToJSON encodes v for a TEXT column.
func ToJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromJSON(s string, v any) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

// DefaultSettings are seeded by Init for keys that are not already set.
func DefaultSettings() map[string]string {
	return map[string]string{
		constants.SettingSeniorTerm:   strconv.Itoa(constants.DefaultSeniorTerm),
		constants.SettingJuniorTerm:   strconv.Itoa(constants.DefaultJuniorTerm),
		constants.SettingReminderTime: constants.DefaultReminderTime,
		constants.SettingTimezone:     constants.DefaultTimezone,
	}
}

// DecodeSettings builds settings from stored key/value pairs. Unknown keys
// are ignored.
func DecodeSettings(kv map[string]string) (models.RoutineSettings, error) {
	var s models.RoutineSettings
	for key, value := range kv {
		var err error
		switch key {
		case constants.SettingSeniorRoutineURL:
			s.SeniorRoutineURL = value
		case constants.SettingJuniorRoutineURL:
			s.JuniorRoutineURL = value
		case constants.SettingRoutineURL:
			s.RoutineURL = value
		case constants.SettingSeniorTerm:
			s.SeniorTerm, err = parseInt(value)
		case constants.SettingJuniorTerm:
			s.JuniorTerm, err = parseInt(value)
		case constants.SettingSeniorTermStart:
			s.SeniorTermStart = value
		case constants.SettingJuniorTermStart:
			s.JuniorTermStart = value
		case constants.SettingReminderTime:
			s.ReminderTime = value
		case constants.SettingTimezone:
			s.Timezone = value
		case constants.SettingUpdatedBy:
			s.UpdatedBy = value
		case constants.SettingUpdatedAt:
			s.UpdatedAt, err = ParseTime(value)
		}
		if err != nil {
			return models.RoutineSettings{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	return s, nil
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// PatchPairs returns the key/value pairs a settings patch writes. Untouched
// keys are absent so stores can merge. now stamps updated_at.
func PatchPairs(p models.SettingsPatch, now time.Time) map[string]string {
	kv := map[string]string{}
	str := func(key string, v *string) {
		if v != nil {
			kv[key] = strings.TrimSpace(*v)
		}
	}
	num := func(key string, v *int) {
		if v != nil {
			kv[key] = strconv.Itoa(*v)
		}
	}
	str(constants.SettingSeniorRoutineURL, p.SeniorRoutineURL)
	str(constants.SettingJuniorRoutineURL, p.JuniorRoutineURL)
	str(constants.SettingRoutineURL, p.RoutineURL)
	num(constants.SettingSeniorTerm, p.SeniorTerm)
	num(constants.SettingJuniorTerm, p.JuniorTerm)
	str(constants.SettingSeniorTermStart, p.SeniorTermStart)
	str(constants.SettingJuniorTermStart, p.JuniorTermStart)
	str(constants.SettingReminderTime, p.ReminderTime)
	str(constants.SettingTimezone, p.Timezone)
	if len(kv) == 0 {
		return kv
	}
	if p.UpdatedBy != "" {
		kv[constants.SettingUpdatedBy] = p.UpdatedBy
	}
	kv[constants.SettingUpdatedAt] = FormatTime(now)
	return kv
}

// ProfileArgs returns the values matching ProfileColumns.
func ProfileArgs(p models.Profile) ([]any, error) {
	subjects, err := ToJSON(nonNil(p.Subjects))
	if err != nil {
		return nil, err
	}
	resets := p.ResetVersions
	if resets == nil {
		resets = map[int]int{}
	}
	resetJSON, err := ToJSON(resets)
	if err != nil {
		return nil, err
	}
	var lockedAt any
	if p.LockedAt != nil {
		lockedAt = FormatTime(*p.LockedAt)
	}
	return []any{
		models.NormalizeEmail(p.Email), string(p.Cohort), string(p.Section), subjects,
		p.Term, p.Locked, p.LockTerm, lockedAt, resetJSON, FormatTime(p.UpdatedAt),
	}, nil
}

// ScanProfile reads one row selected with ProfileColumns.
func ScanProfile(row Scanner) (models.Profile, error) {
	var (
		p                              models.Profile
		cohort, section, subjects, rvs string
		lockedAt                       sql.NullString
		updatedAt                      string
	)
	if err := row.Scan(&p.Email, &cohort, &section, &subjects, &p.Term, &p.Locked,
		&p.LockTerm, &lockedAt, &rvs, &updatedAt); err != nil {
		return models.Profile{}, err
	}
	p.Cohort = models.Cohort(cohort)
	p.Section = models.Section(section)
	if err := fromJSON(subjects, &p.Subjects); err != nil {
		return models.Profile{}, fmt.Errorf("decoding subjects: %w", err)
	}
	if err := fromJSON(rvs, &p.ResetVersions); err != nil {
		return models.Profile{}, fmt.Errorf("decoding reset_versions: %w", err)
	}
	if lockedAt.Valid && lockedAt.String != "" {
		t, err := ParseTime(lockedAt.String)
		if err != nil {
			return models.Profile{}, fmt.Errorf("parsing locked_at: %w", err)
		}
		p.LockedAt = &t
	}
	var err error
	if p.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return models.Profile{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return p, nil
}

// BaselineArgs returns the values matching BaselineColumns.
func BaselineArgs(b models.AttendanceBaseline) ([]any, error) {
	missed := b.Missed
	if missed == nil {
		missed = map[string]int{}
	}
	missedJSON, err := ToJSON(missed)
	if err != nil {
		return nil, err
	}
	subjects, err := ToJSON(nonNil(b.Subjects))
	if err != nil {
		return nil, err
	}
	return []any{
		b.ID, models.NormalizeEmail(b.Email), b.Term, b.AsOf, missedJSON, string(b.Section),
		subjects, FormatTime(b.CreatedAt), FormatTime(b.UpdatedAt),
	}, nil
}

// ScanBaseline reads one row selected with BaselineColumns.
func ScanBaseline(row Scanner) (models.AttendanceBaseline, error) {
	var (
		b                                       models.AttendanceBaseline
		missed, section, subjects, created, upd string
	)
	if err := row.Scan(&b.ID, &b.Email, &b.Term, &b.AsOf, &missed, &section, &subjects, &created, &upd); err != nil {
		return models.AttendanceBaseline{}, err
	}
	b.Section = models.Section(section)
	if err := fromJSON(missed, &b.Missed); err != nil {
		return models.AttendanceBaseline{}, fmt.Errorf("decoding missed: %w", err)
	}
	if err := fromJSON(subjects, &b.Subjects); err != nil {
		return models.AttendanceBaseline{}, fmt.Errorf("decoding subjects: %w", err)
	}
	var err error
	if b.CreatedAt, err = ParseTime(created); err != nil {
		return models.AttendanceBaseline{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if b.UpdatedAt, err = ParseTime(upd); err != nil {
		return models.AttendanceBaseline{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return b, nil
}

// DayArgs returns the values matching DayColumns.
func DayArgs(d models.DaySelections) ([]any, error) {
	sel, err := ToJSON(nonNil(d.Selections))
	if err != nil {
		return nil, err
	}
	return []any{
		d.ID, models.NormalizeEmail(d.Email), d.Day, sel, d.Notes, d.Submitted,
		FormatTime(d.CreatedAt), FormatTime(d.UpdatedAt),
	}, nil
}

// ScanDay reads one row selected with DayColumns.
func ScanDay(row Scanner) (models.DaySelections, error) {
	var (
		d                 models.DaySelections
		sel, created, upd string
	)
	if err := row.Scan(&d.ID, &d.Email, &d.Day, &sel, &d.Notes, &d.Submitted, &created, &upd); err != nil {
		return models.DaySelections{}, err
	}
	if err := fromJSON(sel, &d.Selections); err != nil {
		return models.DaySelections{}, fmt.Errorf("decoding selections: %w", err)
	}
	var err error
	if d.CreatedAt, err = ParseTime(created); err != nil {
		return models.DaySelections{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if d.UpdatedAt, err = ParseTime(upd); err != nil {
		return models.DaySelections{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return d, nil
}

// ChangeRequestArgs returns the values matching ChangeRequestColumns.
func ChangeRequestArgs(c models.ChangeRequest) ([]any, error) {
	from, err := ToJSON(c.From)
	if err != nil {
		return nil, err
	}
	to, err := ToJSON(c.To)
	if err != nil {
		return nil, err
	}
	return []any{
		c.ID, models.NormalizeEmail(c.Email), string(c.Cohort), c.Term, c.ResetVersion,
		from, to, c.Status, FormatTime(c.CreatedAt), FormatTime(c.UpdatedAt),
	}, nil
}

// ScanChangeRequest reads one row selected with ChangeRequestColumns.
func ScanChangeRequest(row Scanner) (models.ChangeRequest, error) {
	var (
		c                             models.ChangeRequest
		cohort, from, to, created, up string
	)
	if err := row.Scan(&c.ID, &c.Email, &cohort, &c.Term, &c.ResetVersion, &from, &to,
		&c.Status, &created, &up); err != nil {
		return models.ChangeRequest{}, err
	}
	c.Cohort = models.Cohort(cohort)
	if err := fromJSON(from, &c.From); err != nil {
		return models.ChangeRequest{}, fmt.Errorf("decoding from_choice: %w", err)
	}
	if err := fromJSON(to, &c.To); err != nil {
		return models.ChangeRequest{}, fmt.Errorf("decoding to_choice: %w", err)
	}
	var err error
	if c.CreatedAt, err = ParseTime(created); err != nil {
		return models.ChangeRequest{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = ParseTime(up); err != nil {
		return models.ChangeRequest{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
