package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
)

func (s *Store) GetProfile(email string) (models.Profile, error) {
	row := s.db.QueryRow("SELECT "+storage.ProfileColumns+" FROM profiles WHERE email = ?",
		models.NormalizeEmail(email))
	p, err := storage.ScanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %s: %w", email, storage.ErrNotFound)
	}
	return p, err
}

func (s *Store) SaveProfile(p models.Profile) error {
	args, err := storage.ProfileArgs(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO profiles (`+storage.ProfileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			cohort = excluded.cohort,
			section = excluded.section,
			subjects = excluded.subjects,
			term = excluded.term,
			locked = excluded.locked,
			lock_term = excluded.lock_term,
			locked_at = excluded.locked_at,
			reset_versions = excluded.reset_versions,
			updated_at = excluded.updated_at`, args...)
	return err
}

func (s *Store) ListProfiles() ([]models.Profile, error) {
	rows, err := s.db.Query("SELECT " + storage.ProfileColumns + " FROM profiles ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := storage.ScanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
