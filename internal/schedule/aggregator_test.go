package schedule

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
)

const seniorCSV = `Routine,,,,
,,,,
,Date,09:00 - 10:30,10:45 - 12:15,13:15 - 14:45
,05/09/2025,ERP (AG) (E&F),IFM sec F,MST common
,,,"MID TERM IFM (E/F)",
`

const juniorCSV = `Date,Day,9:00-10:00,10:00-11:00
01/08/2025,Fri,"Act [] [2][E] [Orientation Talk]","Economics [LCR 01] [Dr. Y] [3][E]"
`

type stubFetcher struct {
	data map[string]string
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.data[url]
	if !ok {
		return nil, ErrNoSource
	}
	return []byte(d), nil
}

func clock() time.Time { return time.Date(2025, 9, 5, 9, 0, 0, 0, time.UTC) }

func newTestAggregator(f Fetcher) *Aggregator {
	return New(f, WithLocation(time.UTC), WithClock(clock))
}

func seniorProfile() models.Profile {
	return models.Profile{
		Email:    "a@example.com",
		Cohort:   models.CohortSenior,
		Section:  models.SectionE,
		Subjects: []string{"ERP", "IFM"},
	}
}

func TestAggregator_LoadSenior(t *testing.T) {
	f := &stubFetcher{data: map[string]string{"https://s.example/senior.csv": seniorCSV}}
	settings := models.RoutineSettings{SeniorRoutineURL: "https://s.example/senior.csv"}

	res, err := newTestAggregator(f).Load(context.Background(), seniorProfile(), settings)
	require.NoError(t, err)

	assert.Equal(t, routine.OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.HeaderRow)
	assert.Equal(t, clock(), res.FetchedAt)
	assert.Equal(t, []models.ScheduleEntry{
		{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass},
		{Time: "10:45 - 12:15", Subject: "MID TERM IFM", Type: models.EntryExam},
	}, res.ByDate["2025-09-05"])
	assert.Empty(t, res.Message())
}

func TestAggregator_LoadJuniorUsesLegacyURL(t *testing.T) {
	f := &stubFetcher{data: map[string]string{"https://s.example/shared.csv": juniorCSV}}
	settings := models.RoutineSettings{RoutineURL: "https://s.example/shared.csv"}
	p := models.Profile{Cohort: models.CohortJunior, Section: models.SectionE, Subjects: []string{"Unrelated"}}

	res, err := newTestAggregator(f).Load(context.Background(), p, settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://s.example/shared.csv"}, f.urls)
	assert.Len(t, res.ByDate["2025-08-01"], 2)
}

func TestAggregator_FetchFailureIsSoft(t *testing.T) {
	f := &stubFetcher{err: errors.New("connection refused")}
	settings := models.RoutineSettings{SeniorRoutineURL: "https://s.example/senior.csv"}

	res, err := newTestAggregator(f).Load(context.Background(), seniorProfile(), settings)
	require.NoError(t, err)
	assert.Equal(t, routine.OutcomeFetchFailed, res.Outcome)
	assert.NotNil(t, res.ByDate)
	assert.True(t, res.Empty())
	assert.Equal(t, "Couldn't read the routine automatically. Open it directly: https://s.example/senior.csv", res.Message())
}

func TestAggregator_MissingURL(t *testing.T) {
	res, err := newTestAggregator(NewSource()).Load(context.Background(), seniorProfile(), models.RoutineSettings{})
	require.NoError(t, err)
	assert.Equal(t, routine.OutcomeFetchFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNoSource)
	assert.Equal(t, "No routine link is configured for the senior cohort yet.", res.Message())
}

func TestAggregator_UnrecognizedFormat(t *testing.T) {
	f := &stubFetcher{data: map[string]string{"u": "name,subject\nx,ERP\n"}}
	res, err := newTestAggregator(f).Load(context.Background(), seniorProfile(), models.RoutineSettings{SeniorRoutineURL: "u"})
	require.NoError(t, err)
	assert.Equal(t, routine.OutcomeNoHeaderFound, res.Outcome)
	assert.Equal(t, "Routine format not recognized.", res.Message())
}

func TestAggregator_EmptySheet(t *testing.T) {
	f := &stubFetcher{data: map[string]string{"u": ",,\n,,\n"}}
	res, err := newTestAggregator(f).Load(context.Background(), seniorProfile(), models.RoutineSettings{SeniorRoutineURL: "u"})
	require.NoError(t, err)
	assert.Equal(t, routine.OutcomeEmptyGrid, res.Outcome)
	assert.Equal(t, "The routine sheet is empty.", res.Message())
}

func TestAggregator_InvalidProfile(t *testing.T) {
	a := newTestAggregator(&stubFetcher{})

	_, err := a.Load(context.Background(), models.Profile{Cohort: "alumni", Section: models.SectionE}, models.RoutineSettings{})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	res, err := a.Load(context.Background(), models.Profile{Cohort: models.CohortSenior, Section: models.SectionG}, models.RoutineSettings{})
	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.NotNil(t, res.ByDate)
}

func TestAggregator_OverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(seniorCSV))
	}))
	defer srv.Close()

	a := newTestAggregator(NewSource().WithClient(srv.Client()))
	res, err := a.Load(context.Background(), seniorProfile(), models.RoutineSettings{SeniorRoutineURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, routine.OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.ByDate.Entries())
}

func TestAggregator_LoadGrid(t *testing.T) {
	grid, err := routine.ReadGrid(strings.NewReader(seniorCSV))
	require.NoError(t, err)

	res, err := newTestAggregator(nil).LoadGrid(grid, seniorProfile())
	require.NoError(t, err)
	assert.Equal(t, routine.OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.ByDate.Entries())
}

func TestResult_MessageNoClasses(t *testing.T) {
	r := Result{Outcome: routine.OutcomeOK, ByDate: models.ByDate{}}
	assert.Equal(t, "No classes found for your section.", r.Message())
}
