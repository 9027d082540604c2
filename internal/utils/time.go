package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// LocationFromSettings returns the configured timezone, falling back to
// local time when the stored name is unusable.
func LocationFromSettings(s models.RoutineSettings) *time.Location {
	loc, err := LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ResolveDay turns a command argument into a day in now's location:
// "", "today", "tomorrow", "yesterday", a YYYY-MM-DD date, or a signed day
// offset such as "+2" or "-1".
func ResolveDay(arg string, now time.Time) (time.Time, error) {
	today := StartOfDay(now)
	switch a := strings.ToLower(strings.TrimSpace(arg)); a {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	default:
		if strings.HasPrefix(a, "+") || strings.HasPrefix(a, "-") {
			var n int
			if _, err := fmt.Sscanf(a, "%d", &n); err == nil {
				return today.AddDate(0, 0, n), nil
			}
		}
		t, err := time.ParseInLocation(constants.DateFormat, a, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day %q: use YYYY-MM-DD, today, tomorrow, yesterday or +N/-N", arg)
		}
		return t, nil
	}
}

// ResolveMonth parses YYYY-MM, defaulting to now's month.
func ResolveMonth(arg string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(arg) == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(arg))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: use YYYY-MM", arg)
	}
	return t.Year(), t.Month(), nil
}
