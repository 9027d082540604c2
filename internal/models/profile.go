package models

import (
	"slices"
	"strings"
	"time"
)

// Profile is the viewer's academic profile.
type Profile struct {
	Email    string     `json:"email" validate:"required,email"`
	Cohort   Cohort     `json:"cohort" validate:"required,oneof=senior junior"`
	Section  Section    `json:"section" validate:"required,oneof=E F G"`
	Subjects []string   `json:"subjects" validate:"dive,required,max=60"`
	Term     int        `json:"term" validate:"gte=0"`
	Locked   bool       `json:"locked"`
	LockTerm int        `json:"lock_term"`
	LockedAt *time.Time `json:"locked_at,omitempty"`
	// ResetVersions maps term -> change request reset version.
	ResetVersions map[int]int `json:"reset_versions,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email used as a document key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLockedForTerm reports whether the profile was locked for term.
func (p Profile) IsLockedForTerm(term int) bool {
	return p.Locked && p.LockTerm == term
}

// ResetVersion returns the change request reset version for term.
func (p Profile) ResetVersion(term int) int {
	if p.ResetVersions == nil {
		return 0
	}
	return p.ResetVersions[term]
}

// Choice returns the section/subjects pair of the profile.
func (p Profile) Choice() ProfileChoice {
	return ProfileChoice{Section: p.Section, Subjects: slices.Clone(p.Subjects)}
}

// ProfileChoice is the part of a profile a change request may alter.
type ProfileChoice struct {
	Section  Section  `json:"section"`
	Subjects []string `json:"subjects"`
}

// Equal compares two choices ignoring subject order.
func (c ProfileChoice) Equal(o ProfileChoice) bool {
	if c.Section != o.Section || len(c.Subjects) != len(o.Subjects) {
		return false
	}
	a := slices.Clone(c.Subjects)
	b := slices.Clone(o.Subjects)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// ChangeRequest asks the academic committee to alter a locked profile.
type ChangeRequest struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Cohort       Cohort        `json:"cohort"`
	Term         int           `json:"term"`
	ResetVersion int           `json:"reset_version"`
	From         ProfileChoice `json:"from"`
	To           ProfileChoice `json:"to"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
