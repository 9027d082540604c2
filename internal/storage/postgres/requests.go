package postgres

import (
	"fmt"
	"time"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
)

func (s *Store) AddChangeRequest(c models.ChangeRequest) error {
	if c.ID == "" {
		c.ID = storage.NewID()
	}
	args, err := storage.ChangeRequestArgs(c)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO change_requests (`+storage.ChangeRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, args...)
	return err
}

func (s *Store) ListChangeRequests(email string, term int) ([]models.ChangeRequest, error) {
	rows, err := s.db.Query(`
		SELECT `+storage.ChangeRequestColumns+` FROM change_requests
		WHERE email = $1 AND term = $2
		ORDER BY created_at, id`, models.NormalizeEmail(email), term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChangeRequest
	for rows.Next() {
		c, err := storage.ScanChangeRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateChangeRequestStatus(id, status string) error {
	res, err := s.db.Exec("UPDATE change_requests SET status = $1, updated_at = $2 WHERE id = $3",
		status, storage.FormatTime(time.Now()), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("change request %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
