package routine

import (
	"regexp"
	"slices"
	"strings"

	"github.com/julianstephens/cohort/internal/models"
)

// CellEntry is one class or event read out of a spreadsheet cell. An entry
// with no sections is common to the whole cohort.
type CellEntry struct {
	Subject  string
	Sections []models.Section
	Room     string
	Type     models.EntryType
}

// VisibleTo reports whether a viewer in section s should see the entry.
func (e CellEntry) VisibleTo(s models.Section) bool {
	if len(e.Sections) == 0 {
		return true
	}
	return slices.Contains(e.Sections, s)
}

// sectionKey is the dedup component of the entry as seen by a viewer in
// section s. Common entries use "". A tagged entry uses the viewer's section,
// or the sorted tag when no section is given, so (E&F), (F&E) and sec E
// collapse for an E viewer.
func (e CellEntry) sectionKey(s models.Section) string {
	if len(e.Sections) == 0 {
		return ""
	}
	if s != "" {
		return string(s)
	}
	parts := make([]string, len(e.Sections))
	for i, sec := range e.Sections {
		parts[i] = string(sec)
	}
	slices.Sort(parts)
	return strings.Join(parts, "&")
}

// Extractor splits one cell into zero or more entries.
type Extractor func(cell string) []CellEntry

const sectionList = `[EFG](?:\s*[,&/]\s*[EFG])*`

var (
	dashCredentialRe  = regexp.MustCompile(`(?i)\s*[-–—]\s*(?:Prof|Professor|Dr|Mr|Mrs|Ms)\b\.?[^,;)]*$`)
	spaceCredentialRe = regexp.MustCompile(`(?i)\s+(?:Prof|Professor|Dr|Mr|Mrs|Ms)\b\.?[^,;)]*$`)
	trailingRoomRe    = regexp.MustCompile(`(?i)\s*(?:[(-]\s*)?\b(?:LCR|MCR)\s*0*\d+\s*\)?\s*$`)
	parenGroupRe      = regexp.MustCompile(`\(([^()]*)\)`)
	sectionTagRe      = regexp.MustCompile(`(?i)^\s*` + sectionList + `\s*$`)
	sectionParenRe    = regexp.MustCompile(`(?i)\((` + sectionList + `)\)`)
	sectionWordListRe = regexp.MustCompile(`(?i)\b(sec|section)\s*(` + sectionList + `)`)
	sectionWordRe     = regexp.MustCompile(`(?i)^([A-Za-z0-9\-/& .]+?)\s+(?:sec|section)\s*(` + sectionList + `)\b`)
	commonRe          = regexp.MustCompile(`(?i)^([A-Za-z0-9\-/& .]+?)\s+common\b`)
	partRoomRe        = regexp.MustCompile(`(?i)\s*\(?\b(?:LCR|MCR)\s*0?\d+\)?\s*$`)
	partProfRe        = regexp.MustCompile(`(?i)\s+prof(?:essor)?\..*$`)
	partDrRe          = regexp.MustCompile(`(?i)\s+dr\..*$`)
	subjectShapeRe    = regexp.MustCompile(`^[A-Za-z0-9\-/& .]{2,60}$`)
	sectionSplitRe    = regexp.MustCompile(`[,&/]+`)

	juniorActRe   = regexp.MustCompile(`^Act\s*\[\]\s*\[(\d+)\]\s*\[(?i:(` + sectionList + `))\]\s*\[(.*)\]\s*$`)
	juniorClassRe = regexp.MustCompile(`^([^\[\]]+?)\s*\[([^\]]+)\]\s*\[([^\]]+)\]\s*\[(\d+)\]\s*\[(?i:(` + sectionList + `))\]`)
)

// ExtractSenior reads the free-text cells of the senior routine, e.g.
// "ERP (AG) (E&F)", "IFM sec E, MST common" or "PJM LCR 01 - Prof. Rao".
func ExtractSenior(cell string) []CellEntry {
	text := strings.TrimSpace(cell)
	if text == "" {
		return nil
	}

	text = dashCredentialRe.ReplaceAllString(text, "")
	text = spaceCredentialRe.ReplaceAllString(text, "")
	text = trailingRoomRe.ReplaceAllString(text, "")
	text = unwrapNonSectionParens(text)
	text = trailingRoomRe.ReplaceAllString(text, "")
	text = sectionWordListRe.ReplaceAllStringFunc(text, joinSectionWords)

	var out []CellEntry
	for _, raw := range splitParts(text) {
		part := strings.TrimSpace(raw)
		if part == "" || part == "-" || part == "—" {
			continue
		}
		if e, ok := seniorPart(part); ok {
			out = append(out, e)
		}
	}
	return out
}

// seniorPart applies the part rules in order; the first one that matches
// decides the subject and sections.
func seniorPart(p string) (CellEntry, bool) {
	var sections []models.Section
	if m := sectionParenRe.FindStringSubmatchIndex(p); m != nil {
		sections = parseSections(p[m[2]:m[3]])
		p = collapseSpace(p[:m[0]] + " " + p[m[1]:])
	}

	var subject string
	switch {
	case sectionWordRe.MatchString(p):
		m := sectionWordRe.FindStringSubmatch(p)
		subject = m[1]
		if len(sections) == 0 {
			sections = parseSections(m[2])
		}
	case commonRe.MatchString(p):
		subject = commonRe.FindStringSubmatch(p)[1]
		sections = nil
	default:
		subject = partRoomRe.ReplaceAllString(p, "")
		subject = partProfRe.ReplaceAllString(subject, "")
		subject = partDrRe.ReplaceAllString(subject, "")
	}

	subject = collapseSpace(subject)
	typ := Classify(subject)
	if typ == models.EntryClass {
		subject = Canonicalize(subject)
	} else {
		subject = CanonicalizeEvent(subject)
	}
	if !subjectShapeRe.MatchString(subject) {
		return CellEntry{}, false
	}
	return CellEntry{Subject: subject, Sections: sections, Type: typ}, true
}

// ExtractJunior reads the bracketed cells of the junior routine:
//
//	Act [] [<session>][<section>] [<event name>]
//	<subject> [<room>] [<professor>] [<session>][<section>]
//
// Any other text yields no entries.
func ExtractJunior(cell string) []CellEntry {
	text := strings.TrimSpace(cell)
	if text == "" {
		return nil
	}

	if m := juniorActRe.FindStringSubmatch(text); m != nil {
		name := collapseSpace(m[3])
		if name == "" {
			return nil
		}
		return []CellEntry{{
			Subject:  name,
			Sections: parseSections(m[2]),
			Type:     models.EntryExam,
		}}
	}

	m := juniorClassRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	subject := collapseSpace(m[1])
	return []CellEntry{{
		Subject:  subject,
		Sections: parseSections(m[5]),
		Room:     strings.TrimSpace(m[2]),
		Type:     Classify(subject),
	}}
}

// unwrapNonSectionParens replaces "(AG)" with "AG" but keeps "(E&F)".
func unwrapNonSectionParens(text string) string {
	return parenGroupRe.ReplaceAllStringFunc(text, func(group string) string {
		inner := group[1 : len(group)-1]
		if sectionTagRe.MatchString(inner) {
			return group
		}
		return strings.TrimSpace(inner)
	})
}

// joinSectionWords rewrites "sec E/F" to "sec E&F" so the part splitter does
// not cut the section list apart.
func joinSectionWords(s string) string {
	m := sectionWordListRe.FindStringSubmatch(s)
	return m[1] + " " + strings.Join(sectionSplitRe.Split(strings.ReplaceAll(m[2], " ", ""), -1), "&")
}

// splitParts splits on , ; / and newlines that are not inside parentheses.
func splitParts(text string) []string {
	var parts []string
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ',' || r == ';' || r == '/' || r == '\n' || r == '\r'):
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	return append(parts, b.String())
}

// parseSections reads "E", "E&F", "e, f / g" into section letters.
func parseSections(list string) []models.Section {
	var out []models.Section
	for _, tok := range sectionSplitRe.Split(strings.ReplaceAll(list, " ", ""), -1) {
		s, ok := models.ParseSection(tok)
		if ok && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
