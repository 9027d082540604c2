package sqlite

import (
	"time"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage"
)

func (s *Store) GetSettings() (models.RoutineSettings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.RoutineSettings{}, err
	}
	defer rows.Close()

	kv := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.RoutineSettings{}, err
		}
		kv[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.RoutineSettings{}, err
	}
	return storage.DecodeSettings(kv)
}

func (s *Store) SaveSettings(patch models.SettingsPatch) error {
	return s.writeSettings(storage.PatchPairs(patch, time.Now()), true)
}

func (s *Store) seedSettings() error {
	return s.writeSettings(storage.DefaultSettings(), false)
}

func (s *Store) writeSettings(kv map[string]string, replace bool) error {
	if len(kv) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := "INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)"
	if replace {
		query = "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)"
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range kv {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}
