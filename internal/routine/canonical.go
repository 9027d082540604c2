package routine

import (
	"regexp"
	"strings"

	"github.com/julianstephens/cohort/internal/constants"
)

var (
	romanRe            = regexp.MustCompile(`(?i)^[IVXLCDM]+$`)
	parenInitialsRe    = regexp.MustCompile(`\s*\(([A-Z]{2,4})\)\s*$`)
	bareInitialsRe     = regexp.MustCompile(`\s+([A-Z]{2,4})$`)
	batchNumberRe      = regexp.MustCompile(`(?i)^PJM\s+\d+$`)
	roomTokenRe        = regexp.MustCompile(`(?i)\b(?:LCR|MCR)(?:\b|\s*\d)`)
	guestSessionRe     = regexp.MustCompile(`(?i)\bguest\s*session\b`)
	trailingDashRe     = regexp.MustCompile(`\s*[-–—]\s*$`)
	leadingDashRe      = regexp.MustCompile(`^\s*[-–—]\s*`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
	eventPunctuationRe = regexp.MustCompile(`[()\[\]–—\-.,:;]`)
)

// canonicalRule is one step of subject canonicalization. Rules run in order
// and each sees the output of the previous one.
type canonicalRule struct {
	name  string
	apply func(string) string
}

var canonicalRules = []canonicalRule{
	{name: "instructor-initials", apply: stripInstructorInitials},
	{name: "batch-number", apply: collapseBatchNumber},
	{name: "room-code", apply: truncateAtRoomCode},
	{name: "guest-session", apply: foldGuestSession},
}

// eventRules skip instructor-initial stripping so that exam text such as
// "MID TERM IFM" keeps the embedded subject code.
var eventRules = []canonicalRule{
	{name: "room-code", apply: truncateAtRoomCode},
	{name: "guest-session", apply: foldGuestSession},
}

// Canonicalize reduces a class subject token to its stable name:
// "ERP (AG)" and "ERP AG" become "ERP", "PJM 3" becomes "PJM".
func Canonicalize(token string) string {
	return applyRules(canonicalRules, token)
}

// CanonicalizeEvent cleans exam and submission text without removing
// trailing subject codes.
func CanonicalizeEvent(token string) string {
	return applyRules(eventRules, token)
}

func applyRules(rules []canonicalRule, token string) string {
	t := collapseSpace(token)
	if t == "" {
		return t
	}
	for _, r := range rules {
		t = strings.TrimSpace(r.apply(t))
	}
	return t
}

func isRoman(s string) bool {
	return romanRe.MatchString(s)
}

func stripInstructorInitials(t string) string {
	if m := parenInitialsRe.FindStringSubmatch(t); m != nil && !isRoman(m[1]) {
		t = strings.TrimSpace(parenInitialsRe.ReplaceAllString(t, ""))
	}
	if m := bareInitialsRe.FindStringSubmatch(t); m != nil && !isRoman(m[1]) {
		t = strings.TrimSpace(bareInitialsRe.ReplaceAllString(t, ""))
	}
	return t
}

func collapseBatchNumber(t string) string {
	if batchNumberRe.MatchString(t) {
		return "PJM"
	}
	return t
}

func truncateAtRoomCode(t string) string {
	loc := roomTokenRe.FindStringIndex(t)
	if loc == nil || loc[0] == 0 {
		return t
	}
	base := strings.TrimSpace(t[:loc[0]])
	base = strings.TrimSpace(strings.TrimSuffix(base, "("))
	if len(base) < 2 {
		return t
	}
	return base
}

func foldGuestSession(t string) string {
	if !guestSessionRe.MatchString(t) {
		return t
	}
	base := guestSessionRe.ReplaceAllString(t, "")
	base = trailingDashRe.ReplaceAllString(base, "")
	base = leadingDashRe.ReplaceAllString(base, "")
	base = collapseSpace(base)
	if base == "" {
		return constants.GuestSessionLabel
	}
	return base
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// normalizeEventText uppercases text and replaces punctuation and dashes with
// single spaces so that whole-word containment can be tested with plain
// string operations.
func normalizeEventText(s string) string {
	s = eventPunctuationRe.ReplaceAllString(s, " ")
	return strings.ToUpper(collapseSpace(s))
}
