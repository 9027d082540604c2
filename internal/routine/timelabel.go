package routine

import (
	"regexp"
	"strings"
)

var (
	timeLabelRe = regexp.MustCompile(`(?i)^\s*\d{1,2}[:.]\d{2}(:\d{2})?(\s*(?:-|–|—|to)\s*\d{1,2}[:.]\d{2}(:\d{2})?)?\s*(am|pm)?\s*$`)
	clockRe     = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
)

// IsTimeLabel reports whether v looks like a slot header such as "08:00",
// "8.30 - 10:00" or "08:30 to 10:00 AM".
func IsTimeLabel(v string) bool {
	return timeLabelRe.MatchString(strings.TrimSpace(v))
}

// SlotMinutes returns the start of a slot label in minutes after midnight.
// A trailing "pm" applies to the start unless the range wraps past noon
// ("11:00 to 1:00 pm"). Labels without a clock sort last.
func SlotMinutes(label string) int {
	clocks := clockRe.FindAllStringSubmatch(label, 2)
	if clocks == nil {
		return 24 * 60
	}
	h, min := atoi(clocks[0][1]), atoi(clocks[0][2])
	pm := strings.HasSuffix(strings.ToLower(strings.TrimSpace(label)), "pm")
	if pm && h < 12 {
		if len(clocks) == 1 || h <= atoi(clocks[1][1]) {
			h += 12
		}
	}
	return h*60 + min
}
