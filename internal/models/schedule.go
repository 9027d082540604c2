package models

import "strings"

// Cohort is the user population a routine sheet belongs to.
type Cohort string

const (
	CohortSenior Cohort = "senior"
	CohortJunior Cohort = "junior"
)

// Valid reports whether c is a known cohort.
func (c Cohort) Valid() bool {
	return c == CohortSenior || c == CohortJunior
}

// Sections returns the section letters a cohort is split into.
func (c Cohort) Sections() []Section {
	if c == CohortJunior {
		return []Section{SectionE, SectionF, SectionG}
	}
	return []Section{SectionE, SectionF}
}

// Section is a sub-group letter within a cohort.
type Section string

const (
	SectionE Section = "E"
	SectionF Section = "F"
	SectionG Section = "G"
)

// ParseSection normalizes a user supplied section letter.
func ParseSection(s string) (Section, bool) {
	switch Section(strings.ToUpper(strings.TrimSpace(s))) {
	case SectionE:
		return SectionE, true
	case SectionF:
		return SectionF, true
	case SectionG:
		return SectionG, true
	}
	return "", false
}

// EntryType tags a schedule entry. Only classes count toward attendance.
type EntryType string

const (
	EntryClass      EntryType = "class"
	EntryExam       EntryType = "exam"
	EntrySubmission EntryType = "sub"
)

// Label is the human-readable chip text for an entry type.
func (t EntryType) Label() string {
	switch t {
	case EntryExam:
		return "Exam/Event"
	case EntrySubmission:
		return "Submission"
	default:
		return "Class"
	}
}

// ScheduleEntry is one parsed timetable item. Entries are never mutated after
// the grid parser produces them.
type ScheduleEntry struct {
	Time    string    `json:"time"`
	Subject string    `json:"subject"`
	Room    string    `json:"room"`
	Type    EntryType `json:"type"`
}

// IsClass reports whether the entry counts toward attendance.
func (e ScheduleEntry) IsClass() bool {
	return e.Type == EntryClass
}

// ByDate maps YYYY-MM-DD keys to entries in insertion order.
type ByDate map[string][]ScheduleEntry

// Dates returns the number of dates with at least one entry.
func (b ByDate) Dates() int {
	n := 0
	for _, entries := range b {
		if len(entries) > 0 {
			n++
		}
	}
	return n
}

// Entries returns the total number of entries across all dates.
func (b ByDate) Entries() int {
	n := 0
	for _, entries := range b {
		n += len(entries)
	}
	return n
}
