package system

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/storage/sqlite"
)

const (
	testEmail  = "viewer@example.com"
	seniorURL  = "https://routine.example/senior.csv"
	juniorURL  = "https://routine.example/junior.csv"
	seniorData = `Routine,,,,
,,,,
,Date,09:00 - 10:30,10:45 - 12:15,13:15 - 14:45
,05/09/2025,ERP (AG) (E&F),IFM (E&F),MST common
`
	juniorData = `Date,Day,9:00-10:00,10:00-11:00
05/09/2025,Fri,"Act [] [2][E] [Orientation Talk]","Economics [LCR 01] [Dr. Y] [3][E]"
`
)

type stubFetcher map[string]string

func (s stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	d, ok := s[url]
	if !ok {
		return nil, schedule.ErrNoSource
	}
	return []byte(d), nil
}

// setupTestStore returns an initialized store at dir/test.db.
func setupTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })
	return store, dbPath
}

// setupViewer stores routine settings and a senior profile, and returns a
// context whose clock reads now.
func setupViewer(t *testing.T, now time.Time) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store, _ := setupTestStore(t)

	senior, junior, tz := seniorURL, juniorURL, "UTC"
	require.NoError(t, store.SaveSettings(models.SettingsPatch{
		SeniorRoutineURL: &senior,
		JuniorRoutineURL: &junior,
		Timezone:         &tz,
	}))
	require.NoError(t, store.SaveProfile(models.Profile{
		Email:    testEmail,
		Cohort:   models.CohortSenior,
		Section:  models.SectionE,
		Subjects: []string{"ERP", "IFM"},
	}))

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:   store,
		Fetcher: stubFetcher{seniorURL: seniorData, juniorURL: juniorData},
		Email:   testEmail,
		Out:     out,
		In:      strings.NewReader(""),
		Now:     func() time.Time { return now },
	}, out
}
