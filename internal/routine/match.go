package routine

import (
	"strings"

	"github.com/julianstephens/cohort/internal/models"
)

// MatchesPicked reports whether a parsed subject belongs to the viewer's
// picked subjects. The subject is expected in canonical form as produced by
// the extractors. Classes need an exact name or the picked subject's
// canonical name. Exams and submissions only need a picked subject to appear
// as a whole word, since their cells read "MID TERM IFM" or "IFM QUIZ 1".
// An empty pick list matches everything.
func MatchesPicked(subject string, typ models.EntryType, picked []string) bool {
	if len(picked) == 0 {
		return true
	}

	if typ == models.EntryClass {
		want := strings.TrimSpace(subject)
		for _, p := range picked {
			if strings.EqualFold(strings.TrimSpace(p), want) {
				return true
			}
			if pn := Canonicalize(p); pn != "" && strings.EqualFold(pn, want) {
				return true
			}
		}
		return false
	}

	text := " " + normalizeEventText(subject) + " "
	for _, p := range picked {
		pn := normalizeEventText(Canonicalize(p))
		if pn == "" {
			continue
		}
		if strings.Contains(text, " "+pn+" ") {
			return true
		}
	}
	return false
}

// SameSubject compares two subject names by canonical form.
func SameSubject(a, b string) bool {
	ca, cb := Canonicalize(a), Canonicalize(b)
	return ca != "" && strings.EqualFold(ca, cb)
}
