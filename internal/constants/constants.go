package constants

import "time"

const (
	AppName            = "cohort"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/cohort/cohort.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// EnvDBConnection overrides --config when set
	EnvDBConnection = "COHORT_DB_CONNECTION"
	// EnvEmail supplies --email, the viewer whose profile commands act on
	EnvEmail = "COHORT_EMAIL"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "cohort-"
	BackupFileSuffix = ".db"

	// Routine fetch constants
	FetchTimeout      = 15 * time.Second
	MaxRoutineBytes   = 8 << 20
	HeaderScanRows    = 10
	HeaderProbeRows   = 2
	GuestSessionLabel = "Guest Session"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "cohort-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.cohort"

	// Profile change requests
	MaxChangeRequestsPerTerm = 2
	ChangeRequestPending     = "pending"
	ChangeRequestApproved    = "approved"
	ChangeRequestRejected    = "rejected"
)
