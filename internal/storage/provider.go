package storage

import (
	"errors"

	"github.com/julianstephens/cohort/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load before `cohort init` has run.
	ErrNotInitialized = errors.New("storage not initialized, run 'cohort init' first")
)

// Provider is the document store behind cohort. Settings and profiles use
// merge-writes; baselines are unique per (email, term) and day selections
// per (email, day).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Routine settings
	GetSettings() (models.RoutineSettings, error)
	SaveSettings(models.SettingsPatch) error

	// Profiles
	GetProfile(email string) (models.Profile, error)
	SaveProfile(models.Profile) error
	ListProfiles() ([]models.Profile, error)

	// Attendance baselines
	GetBaseline(email string, term int) (models.AttendanceBaseline, error)
	SaveBaseline(models.AttendanceBaseline) error

	// Attendance days
	GetDay(email, day string) (models.DaySelections, error)
	SaveDay(models.DaySelections) error
	// ListDays returns the records of email with start <= day <= end,
	// ordered by day.
	ListDays(email, start, end string) ([]models.DaySelections, error)

	// Change requests
	AddChangeRequest(models.ChangeRequest) error
	ListChangeRequests(email string, term int) ([]models.ChangeRequest, error)
	UpdateChangeRequestStatus(id, status string) error

	// Utils
	SchemaVersion() (int, error)
	GetConfigPath() string
}
