package models

import (
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/constants"
)

// RoutineSettings holds the routine sources and term configuration shared by
// every viewer.
type RoutineSettings struct {
	SeniorRoutineURL string    `json:"senior_routine_url" validate:"omitempty,url"`
	JuniorRoutineURL string    `json:"junior_routine_url" validate:"omitempty,url"`
	RoutineURL       string    `json:"routine_url" validate:"omitempty,url"` // legacy shared source
	SeniorTerm       int       `json:"senior_term" validate:"gte=0"`
	JuniorTerm       int       `json:"junior_term" validate:"gte=0"`
	SeniorTermStart  string    `json:"senior_term_start" validate:"omitempty,datetime=2006-01-02"`
	JuniorTermStart  string    `json:"junior_term_start" validate:"omitempty,datetime=2006-01-02"`
	ReminderTime     string    `json:"reminder_time" validate:"omitempty,datetime=15:04"`
	Timezone         string    `json:"timezone"`
	UpdatedBy        string    `json:"updated_by"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// URLFor returns the routine source for a cohort, falling back to the legacy
// shared URL.
func (s RoutineSettings) URLFor(c Cohort) string {
	var url string
	switch c {
	case CohortSenior:
		url = s.SeniorRoutineURL
	case CohortJunior:
		url = s.JuniorRoutineURL
	default:
		return ""
	}
	if strings.TrimSpace(url) == "" {
		url = s.RoutineURL
	}
	return strings.TrimSpace(url)
}

// TermFor returns the configured term number for a cohort.
func (s RoutineSettings) TermFor(c Cohort) int {
	if c == CohortJunior {
		if s.JuniorTerm > 0 {
			return s.JuniorTerm
		}
		return constants.DefaultJuniorTerm
	}
	if s.SeniorTerm > 0 {
		return s.SeniorTerm
	}
	return constants.DefaultSeniorTerm
}

// TermStartFor returns the configured term start date (YYYY-MM-DD) or "".
func (s RoutineSettings) TermStartFor(c Cohort) string {
	if c == CohortJunior {
		return s.JuniorTermStart
	}
	return s.SeniorTermStart
}

// Reminder returns the reminder time or the default.
func (s RoutineSettings) Reminder() string {
	if s.ReminderTime == "" {
		return constants.DefaultReminderTime
	}
	return s.ReminderTime
}

// SettingsPatch carries a merge-write: only non-nil fields are stored.
type SettingsPatch struct {
	SeniorRoutineURL *string
	JuniorRoutineURL *string
	RoutineURL       *string
	SeniorTerm       *int
	JuniorTerm       *int
	SeniorTermStart  *string
	JuniorTermStart  *string
	ReminderTime     *string
	Timezone         *string
	UpdatedBy        string
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.SeniorRoutineURL == nil && p.JuniorRoutineURL == nil && p.RoutineURL == nil &&
		p.SeniorTerm == nil && p.JuniorTerm == nil && p.SeniorTermStart == nil &&
		p.JuniorTermStart == nil && p.ReminderTime == nil && p.Timezone == nil
}

// Apply returns s with the patch merged in.
func (p SettingsPatch) Apply(s RoutineSettings) RoutineSettings {
	if p.SeniorRoutineURL != nil {
		s.SeniorRoutineURL = *p.SeniorRoutineURL
	}
	if p.JuniorRoutineURL != nil {
		s.JuniorRoutineURL = *p.JuniorRoutineURL
	}
	if p.RoutineURL != nil {
		s.RoutineURL = *p.RoutineURL
	}
	if p.SeniorTerm != nil {
		s.SeniorTerm = *p.SeniorTerm
	}
	if p.JuniorTerm != nil {
		s.JuniorTerm = *p.JuniorTerm
	}
	if p.SeniorTermStart != nil {
		s.SeniorTermStart = *p.SeniorTermStart
	}
	if p.JuniorTermStart != nil {
		s.JuniorTermStart = *p.JuniorTermStart
	}
	if p.ReminderTime != nil {
		s.ReminderTime = *p.ReminderTime
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.UpdatedBy != "" {
		s.UpdatedBy = p.UpdatedBy
	}
	return s
}
