package routine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/constants"
)

var (
	trailingClockRe = regexp.MustCompile(`(?i)\s+\d{1,2}[:.]\d{2}(:\d{2})?\s*(am|pm)?\s*$`)
	isoDateRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dayFirstRe      = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?$`)
	monthFirstRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	dottedRe        = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2}|\d{4})$`)
	septRe          = regexp.MustCompile(`(?i)\bsept\b\.?`)
)

// fallbackLayouts are tried last, in order, for textual dates.
var fallbackLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Mon, 2 Jan 2006",
	"Mon 2 Jan 2006",
	"Monday, 2 January 2006",
	"Monday 2 January 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	time.RFC3339,
}

// Dates parses loosely formatted spreadsheet date cells.
// The zero value parses in time.Local using the wall clock for year-less dates.
type Dates struct {
	Location *time.Location
	Now      func() time.Time
}

func (d Dates) loc() *time.Location {
	if d.Location == nil {
		return time.Local
	}
	return d.Location
}

func (d Dates) currentYear() int {
	if d.Now == nil {
		return time.Now().In(d.loc()).Year()
	}
	return d.Now().In(d.loc()).Year()
}

// ParseDate parses raw with the default Dates.
func ParseDate(raw string) (time.Time, bool) {
	return Dates{}.Parse(raw)
}

// Parse converts a date cell into local midnight. The second return is false
// when the text holds no recognizable calendar date.
func (d Dates) Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.TrimSpace(trailingClockRe.ReplaceAllString(s, ""))

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return d.build(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		year := d.expandYear(m[3])
		if t, ok := d.build(year, atoi(m[2]), atoi(m[1])); ok {
			return t, true
		}
	}

	// dd.mm.yy needs a year so that "9.30" is not read as a date
	if m := dottedRe.FindStringSubmatch(s); m != nil {
		return d.build(d.expandYear(m[3]), atoi(m[2]), atoi(m[1]))
	}

	if m := monthFirstRe.FindStringSubmatch(s); m != nil {
		if t, ok := d.build(d.expandYear(m[3]), atoi(m[1]), atoi(m[2])); ok {
			return t, true
		}
	}

	s = septRe.ReplaceAllString(s, "Sep")
	for _, layout := range fallbackLayouts {
		t, err := time.ParseInLocation(layout, s, d.loc())
		if err == nil {
			return d.build(t.Year(), int(t.Month()), t.Day())
		}
	}
	return time.Time{}, false
}

// expandYear maps "", "yy" and "yyyy" to a four digit year.
// Two digit years above 50 belong to the 1900s.
func (d Dates) expandYear(yy string) int {
	switch len(yy) {
	case 0:
		return d.currentYear()
	case 2:
		n := atoi(yy)
		if n > 50 {
			return 1900 + n
		}
		return 2000 + n
	default:
		return atoi(yy)
	}
}

func (d Dates) build(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, d.loc())
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
