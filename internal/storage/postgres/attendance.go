package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
)

func (s *Store) GetBaseline(email string, term int) (models.AttendanceBaseline, error) {
	row := s.db.QueryRow("SELECT "+storage.BaselineColumns+" FROM attendance_baselines WHERE email = $1 AND term = $2",
		models.NormalizeEmail(email), term)
	b, err := storage.ScanBaseline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AttendanceBaseline{}, fmt.Errorf("baseline for term %d: %w", term, storage.ErrNotFound)
	}
	return b, err
}

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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email, term) DO UPDATE SET
			as_of = EXCLUDED.as_of,
			missed = EXCLUDED.missed,
			section = EXCLUDED.section,
			subjects = EXCLUDED.subjects,
			updated_at = EXCLUDED.updated_at`, args...)
	return err
}

func (s *Store) GetDay(email, day string) (models.DaySelections, error) {
	row := s.db.QueryRow("SELECT "+storage.DayColumns+" FROM attendance_days WHERE email = $1 AND day = $2",
		models.NormalizeEmail(email), day)
	d, err := storage.ScanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DaySelections{}, fmt.Errorf("attendance for %s: %w", day, storage.ErrNotFound)
	}
	return d, err
}

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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email, day) DO UPDATE SET
			selections = EXCLUDED.selections,
			notes = EXCLUDED.notes,
			submitted = EXCLUDED.submitted,
			updated_at = EXCLUDED.updated_at`, args...)
	return err
}

func (s *Store) ListDays(email, start, end string) ([]models.DaySelections, error) {
	rows, err := s.db.Query(`
		SELECT `+storage.DayColumns+` FROM attendance_days
		WHERE email = $1 AND day >= $2 AND day <= $3
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
