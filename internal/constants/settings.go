package constants

const (
	// Routine settings keys
	SettingSeniorRoutineURL = "senior_routine_url"
	SettingJuniorRoutineURL = "junior_routine_url"
	SettingRoutineURL       = "routine_url" // legacy, shared by both cohorts
	SettingSeniorTerm       = "senior_term"
	SettingJuniorTerm       = "junior_term"
	SettingSeniorTermStart  = "senior_term_start"
	SettingJuniorTermStart  = "junior_term_start"
	SettingReminderTime     = "reminder_time"
	SettingTimezone         = "timezone"
	SettingUpdatedBy        = "updated_by"
	SettingUpdatedAt        = "updated_at"

	// Default Settings Values
	DefaultSeniorTerm   = 5
	DefaultJuniorTerm   = 2
	DefaultReminderTime = "21:00"
	DefaultTimezone     = "Local" // Use system local timezone by default
)
