package schedules

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/storage/sqlite"
)

const routineURL = "https://routine.example/senior.csv"

const seniorCSV = `Routine,,,,
,,,,
,Date,09:00 - 10:30,10:45 - 12:15,13:15 - 14:45
,05/09/2025,ERP (AG) (E&F),IFM sec F,MST common
,,,"MID TERM IFM (E/F)",
,08/09/2025,IFM (E&F),,
`

type stubFetcher map[string]string

func (s stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	d, ok := s[url]
	if !ok {
		return nil, schedule.ErrNoSource
	}
	return []byte(d), nil
}

func setupTestDB(t *testing.T, now time.Time) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	url := routineURL
	tz := "UTC"
	require.NoError(t, store.SaveSettings(models.SettingsPatch{SeniorRoutineURL: &url, Timezone: &tz}))
	require.NoError(t, store.SaveProfile(models.Profile{
		Email:    "viewer@example.com",
		Cohort:   models.CohortSenior,
		Section:  models.SectionE,
		Subjects: []string{"ERP", "IFM"},
	}))

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:   store,
		Fetcher: stubFetcher{routineURL: seniorCSV},
		Email:   "viewer@example.com",
		Out:     out,
		Now:     func() time.Time { return now },
	}
	return ctx, out
}

func friday() time.Time { return time.Date(2025, 9, 5, 8, 0, 0, 0, time.UTC) }

func TestTodayCmd(t *testing.T) {
	ctx, out := setupTestDB(t, friday())

	require.NoError(t, (&TodayCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Friday, 05 Sep 2025 (1 class)")
	assert.Contains(t, out.String(), "ERP")
	assert.Contains(t, out.String(), "MID TERM IFM")
	assert.Contains(t, out.String(), "Exam/Event")
}

func TestTomorrowCmd_NothingScheduled(t *testing.T) {
	ctx, out := setupTestDB(t, friday())

	require.NoError(t, (&TomorrowCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Saturday, 06 Sep 2025 (0 classes)")
	assert.Contains(t, out.String(), "Nothing scheduled.")
}

func TestDayCmd(t *testing.T) {
	ctx, out := setupTestDB(t, friday())

	require.NoError(t, (&DayCmd{Day: "2025-09-08"}).Run(ctx))
	assert.Contains(t, out.String(), "Monday, 08 Sep 2025 (1 class)")
	assert.Contains(t, out.String(), "IFM")

	assert.Error(t, (&DayCmd{Day: "next week"}).Run(ctx))
}

func TestMonthCmd(t *testing.T) {
	ctx, out := setupTestDB(t, friday())

	require.NoError(t, (&MonthCmd{}).Run(ctx))
	s := out.String()
	assert.Contains(t, s, "September 2025")
	assert.Contains(t, s, "[5]*!")
	assert.Contains(t, s, " 8*")
	assert.Contains(t, s, "* classes  ! exams/submissions")
}

func TestExamsCmd(t *testing.T) {
	ctx, out := setupTestDB(t, friday())
	require.NoError(t, (&ExamsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Fri, 05 Sep 2025")
	assert.Contains(t, out.String(), "MID TERM IFM")

	later, out := setupTestDB(t, friday().AddDate(0, 0, 7))
	require.NoError(t, (&ExamsCmd{}).Run(later))
	assert.Contains(t, out.String(), "No upcoming exams or events.")

	out.Reset()
	require.NoError(t, (&ExamsCmd{All: true}).Run(later))
	assert.Contains(t, out.String(), "MID TERM IFM")
}

func TestSubjectsCmd(t *testing.T) {
	ctx, out := setupTestDB(t, friday())

	require.NoError(t, (&SubjectsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Subjects in the senior routine for section E:")
	assert.Contains(t, out.String(), "* ERP")
}

func TestLoad_NoProfile(t *testing.T) {
	ctx, _ := setupTestDB(t, friday())
	ctx.Email = "someone@example.com"

	assert.Error(t, (&TodayCmd{}).Run(ctx))
}

func TestLoad_FetchFailurePrintsMessage(t *testing.T) {
	ctx, out := setupTestDB(t, friday())
	ctx.Fetcher = stubFetcher{}

	require.NoError(t, (&TodayCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Couldn't read the routine automatically")
	assert.Contains(t, out.String(), "Nothing scheduled.")
}

func TestFormatMonth_MarksToday(t *testing.T) {
	b := models.ByDate{"2025-09-10": {{Subject: "ERP", Type: models.EntryClass}}}
	view := schedule.Month(b, 2025, time.September, time.UTC)

	got := FormatMonth(view, "2025-09-10")
	assert.Contains(t, got, "[10]*")
	assert.Contains(t, got, "Mon    Tue")
}
