package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/models"
)

// rowOf replays args as a scanned row, the way a driver hands back the
// values it was given.
type rowOf []any

func (r rowOf) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *int:
			*p = r[i].(int)
		case *bool:
			*p = r[i].(bool)
		default:
			if ns, ok := d.(interface{ Scan(any) error }); ok {
				if err := ns.Scan(r[i]); err != nil {
					return err
				}
				continue
			}
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func TestDecodeSettings(t *testing.T) {
	s, err := DecodeSettings(map[string]string{
		constants.SettingSeniorRoutineURL: "https://example.com/senior.csv",
		constants.SettingRoutineURL:       "https://example.com/shared.csv",
		constants.SettingSeniorTerm:       "6",
		constants.SettingJuniorTerm:       "",
		constants.SettingReminderTime:     "20:30",
		constants.SettingUpdatedAt:        "2025-09-01T10:00:00Z",
		"unknown":                         "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/senior.csv", s.URLFor(models.CohortSenior))
	assert.Equal(t, "https://example.com/shared.csv", s.URLFor(models.CohortJunior))
	assert.Equal(t, 6, s.TermFor(models.CohortSenior))
	assert.Equal(t, constants.DefaultJuniorTerm, s.TermFor(models.CohortJunior))
	assert.Equal(t, "20:30", s.Reminder())
	assert.Equal(t, 2025, s.UpdatedAt.Year())

	_, err = DecodeSettings(map[string]string{constants.SettingSeniorTerm: "five"})
	assert.ErrorContains(t, err, constants.SettingSeniorTerm)
}

func TestPatchPairs(t *testing.T) {
	now := time.Date(2025, 9, 5, 8, 0, 0, 0, time.UTC)

	assert.Empty(t, PatchPairs(models.SettingsPatch{UpdatedBy: "admin"}, now))

	url := "  https://example.com/j.csv "
	term := 3
	kv := PatchPairs(models.SettingsPatch{JuniorRoutineURL: &url, JuniorTerm: &term, UpdatedBy: "admin"}, now)
	assert.Equal(t, map[string]string{
		constants.SettingJuniorRoutineURL: "https://example.com/j.csv",
		constants.SettingJuniorTerm:       "3",
		constants.SettingUpdatedBy:        "admin",
		constants.SettingUpdatedAt:        "2025-09-05T08:00:00Z",
	}, kv)
}

func TestProfileRoundTrip(t *testing.T) {
	locked := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	in := models.Profile{
		Email:         " Student@Example.com ",
		Cohort:        models.CohortSenior,
		Section:       models.SectionF,
		Subjects:      []string{"IFM", "DRM"},
		Term:          5,
		Locked:        true,
		LockTerm:      5,
		LockedAt:      &locked,
		ResetVersions: map[int]int{5: 1},
		UpdatedAt:     locked,
	}
	args, err := ProfileArgs(in)
	require.NoError(t, err)

	out, err := ScanProfile(rowOf(args))
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", out.Email)
	assert.Equal(t, in.Subjects, out.Subjects)
	assert.Equal(t, 1, out.ResetVersion(5))
	require.NotNil(t, out.LockedAt)
	assert.True(t, locked.Equal(*out.LockedAt))
	assert.True(t, out.IsLockedForTerm(5))
}

func TestProfileArgs_Unlocked(t *testing.T) {
	args, err := ProfileArgs(models.Profile{Email: "a@b.c", Cohort: models.CohortJunior, Section: models.SectionG})
	require.NoError(t, err)
	assert.Nil(t, args[7])
	assert.Equal(t, "[]", args[3])
	assert.Equal(t, "{}", args[8])
}

func TestDayRoundTrip(t *testing.T) {
	in := models.DaySelections{
		ID:         "d1",
		Email:      "a@b.c",
		Day:        "2025-09-05",
		Selections: []models.Selection{{Subject: "IFM", Time: "8:00-9:30"}},
		Submitted:  true,
		CreatedAt:  time.Date(2025, 9, 5, 21, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 9, 5, 21, 5, 0, 0, time.UTC),
	}
	args, err := DayArgs(in)
	require.NoError(t, err)
	out, err := ScanDay(rowOf(args))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestChangeRequestRoundTrip(t *testing.T) {
	ts := time.Date(2025, 9, 5, 21, 0, 0, 0, time.UTC)
	in := models.ChangeRequest{
		ID:           "c1",
		Email:        "a@b.c",
		Cohort:       models.CohortSenior,
		Term:         5,
		ResetVersion: 1,
		From:         models.ProfileChoice{Section: models.SectionE, Subjects: []string{"IFM"}},
		To:           models.ProfileChoice{Section: models.SectionF, Subjects: []string{"IFM"}},
		Status:       constants.ChangeRequestPending,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	args, err := ChangeRequestArgs(in)
	require.NoError(t, err)
	out, err := ScanChangeRequest(rowOf(args))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFormatTime_Zero(t *testing.T) {
	assert.Equal(t, "", FormatTime(time.Time{}))
	got, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
