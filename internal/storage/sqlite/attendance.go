package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
)

func (s *Store) GetBaseline(email string, term int) (models.AttendanceBaseline, error) {
	row := s.db.QueryRow("SELECT "+storage.BaselineColumns+" FROM attendance_baselines WHERE email = ? AND term = ?",
		models.NormalizeEmail(email), term)
	b, err := storage.ScanBaseline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AttendanceBaseline{}, fmt.Errorf("baseline for term %d: %w", term, storage.ErrNotFound)
	}
	return b, err
}

// SaveBaseline upserts on (email, term). The original id and created_at of
// an existing record are kept.
func (s *Store) SaveBaseline(b models.AttendanceBaseline) error {
	if b.ID == "" {
		b.ID = storage.NewID()
	}
	args, err := storage.BaselineArgs(b)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO attendance_baselines (`+storage.BaselineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email, term) DO UPDATE SET
			as_of = excluded.as_of,
			missed = excluded.missed,
			section = excluded.section,
			subjects = excluded.subjects,
			updated_at = excluded.updated_at`, args...)
	return err
}

func (s *Store) GetDay(email, day string) (models.DaySelections, error) {
	row := s.db.QueryRow("SELECT "+storage.DayColumns+" FROM attendance_days WHERE email = ? AND day = ?",
		models.NormalizeEmail(email), day)
	d, err := storage.ScanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DaySelections{}, fmt.Errorf("attendance for %s: %w", day, storage.ErrNotFound)
	}
	return d, err
}

// SaveDay upserts on (email, day).
func (s *Store) SaveDay(d models.DaySelections) error {
	if d.ID == "" {
		d.ID = storage.NewID()
	}
	args, err := storage.DayArgs(d)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO attendance_days (`+storage.DayColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email, day) DO UPDATE SET
			selections = excluded.selections,
			notes = excluded.notes,
			submitted = excluded.submitted,
			updated_at = excluded.updated_at`, args...)
	return err
}

func (s *Store) ListDays(email, start, end string) ([]models.DaySelections, error) {
	rows, err := s.db.Query(`
		SELECT `+storage.DayColumns+` FROM attendance_days
		WHERE email = ? AND day >= ? AND day <= ?
		ORDER BY day`, models.NormalizeEmail(email), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DaySelections
	for rows.Next() {
		d, err := storage.ScanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
