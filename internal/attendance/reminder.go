package attendance

import (
	"time"

	"github.com/julianstephens/cohort/internal/models"
)

// ReminderDue reports whether the daily attendance reminder should fire:
// now is between the reminder time and midnight, today has classes, and the
// viewer has not submitted today's selections. An unparseable reminder time
// opens the window at midnight.
func ReminderDue(now time.Time, reminder string, classesToday int, rec *models.DaySelections) bool {
	if classesToday == 0 {
		return false
	}
	if rec != nil && rec.Submitted {
		return false
	}
	if at, err := time.Parse("15:04", reminder); err == nil {
		opens := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
		if now.Before(opens) {
			return false
		}
	}
	return true
}
