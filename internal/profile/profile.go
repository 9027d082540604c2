// Package profile applies the lock and change-request rules around a
// viewer's academic profile.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/logger"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
	"github.com/julianstephens/cohort/internal/validation"
)

var (
	ErrLocked       = errors.New("profile is locked for this term")
	ErrNotLocked    = errors.New("profile is not locked for this term")
	ErrLimitReached = errors.New("change request limit reached for this term")
	ErrNoChange     = errors.New("requested choice matches the current profile")
	ErrNotPending   = errors.New("change request is not pending")
)

// Store is the part of storage.Provider the service uses.
type Store interface {
	GetProfile(email string) (models.Profile, error)
	SaveProfile(models.Profile) error
	GetSettings() (models.RoutineSettings, error)
	AddChangeRequest(models.ChangeRequest) error
	ListChangeRequests(email string, term int) ([]models.ChangeRequest, error)
	UpdateChangeRequestStatus(id, status string) error
}

// Service reads and writes profiles. The zero clock is time.Now.
type Service struct {
	store     Store
	validator *validation.Validator
	now       func() time.Time
}

func New(store Store) *Service {
	return &Service{store: store, validator: validation.New(), now: time.Now}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Update is a merge-write of the editable profile fields; nil fields are
// left as stored.
type Update struct {
	Cohort   *models.Cohort
	Section  *models.Section
	Subjects *[]string
}

// Get returns the stored profile with its term refreshed from settings.
func (s *Service) Get(email string) (models.Profile, error) {
	p, err := s.store.GetProfile(email)
	if err != nil {
		return models.Profile{}, err
	}
	if settings, err := s.store.GetSettings(); err == nil {
		p.Term = settings.TermFor(p.Cohort)
	}
	return p, nil
}

// Save merges u into the stored profile (or a new one) and validates the
// result against vocabulary, the subjects of the cohort's routine. A profile
// locked for the current term cannot be edited; use RequestChange.
func (s *Service) Save(email string, u Update, vocabulary []string) (models.Profile, validation.ValidationResult, error) {
	email = models.NormalizeEmail(email)
	p, err := s.store.GetProfile(email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		p = models.Profile{Email: email}
	case err != nil:
		return models.Profile{}, validation.ValidationResult{}, err
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		return models.Profile{}, validation.ValidationResult{}, fmt.Errorf("reading settings: %w", err)
	}
	if p.Cohort != "" && p.IsLockedForTerm(settings.TermFor(p.Cohort)) {
		return p, validation.ValidationResult{}, ErrLocked
	}

	if u.Cohort != nil {
		p.Cohort = *u.Cohort
	}
	if u.Section != nil {
		p.Section = *u.Section
	}
	if u.Subjects != nil {
		p.Subjects = cleanSubjects(*u.Subjects)
	}
	p.Term = settings.TermFor(p.Cohort)

	result := s.validator.ValidateProfile(p, vocabulary)
	if blocking(result) {
		return p, result, result.Err()
	}

	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(p); err != nil {
		return p, result, fmt.Errorf("saving profile: %w", err)
	}
	logger.Info("profile saved", "email", email, "cohort", p.Cohort, "section", p.Section, "subjects", len(p.Subjects))
	return p, result, nil
}

// blocking reports whether a result prevents saving. Unknown subjects are
// warnings because the routine may not list every elective yet.
func blocking(r validation.ValidationResult) bool {
	return slices.ContainsFunc(r.Conflicts, func(c validation.Conflict) bool {
		return c.Type != validation.ConflictUnknownSubject
	})
}

func cleanSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Lock freezes the profile for the current term.
func (s *Service) Lock(email string) (models.Profile, error) {
	p, err := s.Get(email)
	if err != nil {
		return models.Profile{}, err
	}
	if p.IsLockedForTerm(p.Term) {
		return p, nil
	}
	now := s.now()
	p.Locked = true
	p.LockTerm = p.Term
	p.LockedAt = &now
	p.UpdatedAt = now
	if err := s.store.SaveProfile(p); err != nil {
		return p, fmt.Errorf("locking profile: %w", err)
	}
	logger.Info("profile locked", "email", p.Email, "term", p.Term)
	return p, nil
}

// Remaining returns how many change requests email may still file this
// term under the current reset version.
func (s *Service) Remaining(p models.Profile) (int, error) {
	used, err := s.used(p)
	if err != nil {
		return 0, err
	}
	return max(0, constants.MaxChangeRequestsPerTerm-used), nil
}

func (s *Service) used(p models.Profile) (int, error) {
	reqs, err := s.store.ListChangeRequests(p.Email, p.Term)
	if err != nil {
		return 0, fmt.Errorf("listing change requests: %w", err)
	}
	version := p.ResetVersion(p.Term)
	n := 0
	for _, r := range reqs {
		if r.ResetVersion == version {
			n++
		}
	}
	return n, nil
}

// RequestChange files a pending request to move a locked profile to the
// given choice. At most two requests are allowed per (email, term, reset
// version).
func (s *Service) RequestChange(email string, to models.ProfileChoice) (models.ChangeRequest, error) {
	p, err := s.Get(email)
	if err != nil {
		return models.ChangeRequest{}, err
	}
	if !p.IsLockedForTerm(p.Term) {
		return models.ChangeRequest{}, ErrNotLocked
	}

	to.Subjects = cleanSubjects(to.Subjects)
	if to.Section == "" {
		to.Section = p.Section
	}
	if to.Equal(p.Choice()) {
		return models.ChangeRequest{}, ErrNoChange
	}

	used, err := s.used(p)
	if err != nil {
		return models.ChangeRequest{}, err
	}
	if used >= constants.MaxChangeRequestsPerTerm {
		return models.ChangeRequest{}, ErrLimitReached
	}

	now := s.now()
	req := models.ChangeRequest{
		ID:           storage.NewID(),
		Email:        p.Email,
		Cohort:       p.Cohort,
		Term:         p.Term,
		ResetVersion: p.ResetVersion(p.Term),
		From:         p.Choice(),
		To:           to,
		Status:       constants.ChangeRequestPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.AddChangeRequest(req); err != nil {
		return models.ChangeRequest{}, fmt.Errorf("filing change request: %w", err)
	}
	logger.Info("change request filed", "email", p.Email, "term", p.Term, "id", req.ID)
	return req, nil
}

// Requests lists the change requests of email for its current term.
func (s *Service) Requests(email string) ([]models.ChangeRequest, error) {
	p, err := s.Get(email)
	if err != nil {
		return nil, err
	}
	return s.store.ListChangeRequests(p.Email, p.Term)
}

// Decide approves or rejects a pending request. Approval applies the
// requested choice to the profile; the lock stays in place.
func (s *Service) Decide(email, id string, approve bool) (models.ChangeRequest, error) {
	p, err := s.Get(email)
	if err != nil {
		return models.ChangeRequest{}, err
	}
	reqs, err := s.store.ListChangeRequests(p.Email, p.Term)
	if err != nil {
		return models.ChangeRequest{}, fmt.Errorf("listing change requests: %w", err)
	}
	idx := slices.IndexFunc(reqs, func(r models.ChangeRequest) bool { return r.ID == id })
	if idx < 0 {
		return models.ChangeRequest{}, fmt.Errorf("change request %s: %w", id, storage.ErrNotFound)
	}
	req := reqs[idx]
	if req.Status != constants.ChangeRequestPending {
		return req, ErrNotPending
	}

	req.Status = constants.ChangeRequestRejected
	if approve {
		req.Status = constants.ChangeRequestApproved
		p.Section = req.To.Section
		p.Subjects = slices.Clone(req.To.Subjects)
		p.UpdatedAt = s.now()
		if err := s.store.SaveProfile(p); err != nil {
			return req, fmt.Errorf("applying change request: %w", err)
		}
	}
	if err := s.store.UpdateChangeRequestStatus(req.ID, req.Status); err != nil {
		return req, fmt.Errorf("updating change request: %w", err)
	}
	logger.Info("change request decided", "email", p.Email, "id", req.ID, "status", req.Status)
	return req, nil
}

// ResetRequests bumps the reset version of the current term so email may
// file a fresh pair of change requests.
func (s *Service) ResetRequests(email string) (models.Profile, error) {
	p, err := s.Get(email)
	if err != nil {
		return models.Profile{}, err
	}
	if p.ResetVersions == nil {
		p.ResetVersions = map[int]int{}
	}
	p.ResetVersions[p.Term]++
	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(p); err != nil {
		return p, fmt.Errorf("resetting change requests: %w", err)
	}
	logger.Info("change requests reset", "email", p.Email, "term", p.Term, "version", p.ResetVersions[p.Term])
	return p, nil
}
