package models

import "time"

// AttendanceBaseline records classes missed before tracking began.
type AttendanceBaseline struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Term      int            `json:"term"`
	AsOf      string         `json:"as_of"` // YYYY-MM-DD format
	Missed    map[string]int `json:"missed"`
	Section   Section        `json:"section"`
	Subjects  []string       `json:"subjects"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MissedFor returns the baseline misses for subject.
func (b *AttendanceBaseline) MissedFor(subject string) int {
	if b == nil || b.Missed == nil {
		return 0
	}
	return b.Missed[subject]
}

// Selection is one class the viewer reports having attended.
type Selection struct {
	Subject string `json:"subject"`
	Time    string `json:"time"`
}

// DaySelections is the viewer's self-reported attendance for one day.
type DaySelections struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Day        string      `json:"day"` // YYYY-MM-DD format
	Selections []Selection `json:"selections"`
	Notes      string      `json:"notes"`
	Submitted  bool        `json:"submitted"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// AttendedCounts tallies selections per subject.
func (d *DaySelections) AttendedCounts() map[string]int {
	out := map[string]int{}
	if d == nil {
		return out
	}
	for _, s := range d.Selections {
		if s.Subject == "" {
			continue
		}
		out[s.Subject]++
	}
	return out
}
