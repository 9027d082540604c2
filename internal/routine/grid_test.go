package routine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/models"
)

func seniorHeader() []string {
	return []string{"", "Date", "09:00 - 10:30", "10:45 - 12:15", "13:15 - 14:45", "15:00 - 16:30"}
}

func testParser() Parser {
	return Parser{Dates: Dates{Location: time.UTC}}
}

func TestParse_SeniorScenario(t *testing.T) {
	grid := Grid{
		{"Routine Term 5"},
		{""},
		seniorHeader(),
		{"", "05/09/2025", "ERP (AG) (E&F)", "IFM sec F", "", "MST common"},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{Section: models.SectionE, Subjects: []string{"ERP"}})

	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, 2, res.HeaderRow)
	assert.Len(t, res.Slots, 4)
	assert.Equal(t, models.ByDate{
		"2025-09-05": {{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass}},
	}, res.ByDate)
}

func TestParse_JuniorActivity(t *testing.T) {
	grid := Grid{
		{"Date", "Day", "9:00-10:00", "10:00-11:00", "11:15-12:15"},
		{"01/08/2025", "Fri", "Act [] [2][E] [Orientation Talk]", "", ""},
	}

	res := testParser().Parse(grid, JuniorLayout, Viewer{Section: models.SectionE})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, models.ByDate{
		"2025-08-01": {{Time: "9:00-10:00", Subject: "Orientation Talk", Type: models.EntryExam}},
	}, res.ByDate)

	res = testParser().Parse(grid, JuniorLayout, Viewer{Section: models.SectionF})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Empty(t, res.ByDate)
}

func TestParse_JuniorIgnoresPickedSubjects(t *testing.T) {
	grid := Grid{
		{"Date", "Day", "9:00-10:00", "10:00-11:00"},
		{"01/08/2025", "Fri", "Financial Accounting [LCR 02] [Prof. X] [3][F]", "Economics [LCR 01] [Dr. Y] [3][F]"},
	}

	res := testParser().Parse(grid, JuniorLayout, Viewer{Section: models.SectionF, Subjects: []string{"Economics"}})
	require.Len(t, res.ByDate["2025-08-01"], 2)
	assert.Equal(t, "LCR 02", res.ByDate["2025-08-01"][0].Room)
}

func TestParse_UnparseableDateResetsBlock(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "ERP"},
		{"", "TBD", "MST"},
		{"", "", ""},
		{"", "", "IFM"},
		{"", "06/09/2025", ""},
		{"", "", "PJM"},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, models.ByDate{
		"2025-09-05": {{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass}},
		"2025-09-06": {{Time: "09:00 - 10:30", Subject: "PJM", Type: models.EntryClass}},
	}, res.ByDate)
}

func TestParse_CarryForwardIsDeduplicated(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "ERP (AG) (E&F)", "MST"},
		{"", "", "", ""},
		{"", "", "ERP (AG) (E&F)", ""},
		{"", "", "", "IFM"},
		{"", "06/09/2025", "", ""},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{Section: models.SectionF})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, []models.ScheduleEntry{
		{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass},
		{Time: "10:45 - 12:15", Subject: "MST", Type: models.EntryClass},
		{Time: "10:45 - 12:15", Subject: "IFM", Type: models.EntryClass},
	}, res.ByDate["2025-09-05"])
	_, carried := res.ByDate["2025-09-06"]
	assert.False(t, carried, "merged cells must not leak into the next date")
}

func TestParse_NoDuplicateSubjectSectionPerSlot(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "ERP (E), ERP (E)", "MST"},
		{"", "05/09/2025", "ERP (E)", "MST"},
		{"", "", "ERP (E)", "MST"},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{Section: models.SectionE})
	type key struct{ date, time, subject string }
	seen := map[key]int{}
	for date, entries := range res.ByDate {
		for _, e := range entries {
			seen[key{date, e.Time, e.Subject}]++
		}
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "%v", k)
	}
	assert.Len(t, res.ByDate["2025-09-05"], 2)
}

func TestParse_SectionTagSpellingsCollapse(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "ERP (E&F)"},
		{"", "", "ERP (F&E)"},
		{"", "", "ERP sec E"},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{Section: models.SectionE, Subjects: []string{"ERP"}})
	assert.Equal(t, []models.ScheduleEntry{
		{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass},
	}, res.ByDate["2025-09-05"])

	res = testParser().Parse(grid, SeniorLayout, Viewer{})
	assert.Len(t, res.ByDate["2025-09-05"], 2, "without a viewer section, E&F and E stay apart")
}

func TestParse_JuniorCombinedSection(t *testing.T) {
	grid := Grid{
		{"Date", "Day", "9:00-10:00", "10:00-11:00"},
		{"01/08/2025", "Fri", "Economics [LCR 01] [Dr. Y] [3][E&F]", "Act [] [3][F/G] [Guest Lecture]"},
	}

	res := testParser().Parse(grid, JuniorLayout, Viewer{Section: models.SectionF})
	assert.Equal(t, models.ByDate{
		"2025-08-01": {
			{Time: "9:00-10:00", Subject: "Economics", Room: "LCR 01", Type: models.EntryClass},
			{Time: "10:00-11:00", Subject: "Guest Lecture", Type: models.EntryExam},
		},
	}, res.ByDate)

	res = testParser().Parse(grid, JuniorLayout, Viewer{Section: models.SectionG})
	assert.Equal(t, models.ByDate{
		"2025-08-01": {{Time: "10:00-11:00", Subject: "Guest Lecture", Type: models.EntryExam}},
	}, res.ByDate)
}

func TestParse_SectionFilter(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "ERP (E&F)", "IFM (F)", "MST (E)", "PJM"},
	}

	subjects := func(v Viewer) []string {
		var out []string
		for _, e := range testParser().Parse(grid, SeniorLayout, v).ByDate["2025-09-05"] {
			out = append(out, e.Subject)
		}
		return out
	}

	assert.Equal(t, []string{"ERP", "MST", "PJM"}, subjects(Viewer{Section: models.SectionE}))
	assert.Equal(t, []string{"ERP", "IFM", "PJM"}, subjects(Viewer{Section: models.SectionF}))
	assert.Equal(t, []string{"ERP", "IFM", "MST", "PJM"}, subjects(Viewer{}))
}

func TestParse_ExamMatchingForSeniors(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "MID TERM IFM", "IFM QUIZ", "ERP", "Mid Term ERP"},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{Section: models.SectionE, Subjects: []string{"IFM"}})
	assert.Equal(t, []models.ScheduleEntry{
		{Time: "09:00 - 10:30", Subject: "MID TERM IFM", Type: models.EntryExam},
		{Time: "10:45 - 12:15", Subject: "IFM QUIZ", Type: models.EntryExam},
	}, res.ByDate["2025-09-05"])
}

func TestParse_ProbesRowsBelowHeader(t *testing.T) {
	grid := Grid{
		{"", "Date", "09:00 - 10:30", "Lecture", "Lecture", "Lecture"},
		{"", "", "", "10:45 - 12:15", "13:15 - 14:45", ""},
		{"", "", "", "", "", "15:00 - 16:30"},
		{"", "05/09/2025", "ERP", "MST", "IFM", "PJM"},
	}

	res := testParser().Parse(grid, SeniorLayout, Viewer{})
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, 0, res.HeaderRow)
	assert.Equal(t, []Slot{
		{Col: 2, Label: "09:00 - 10:30"},
		{Col: 3, Label: "10:45 - 12:15"},
		{Col: 4, Label: "13:15 - 14:45"},
		{Col: 5, Label: "15:00 - 16:30"},
	}, res.Slots)
	assert.Len(t, res.ByDate["2025-09-05"], 4)
}

func TestParse_Outcomes(t *testing.T) {
	p := testParser()

	res := p.Parse(nil, SeniorLayout, Viewer{})
	assert.Equal(t, OutcomeEmptyGrid, res.Outcome)
	assert.NotNil(t, res.ByDate)

	res = p.Parse(Grid{{"", " "}, {}}, SeniorLayout, Viewer{})
	assert.Equal(t, OutcomeEmptyGrid, res.Outcome)

	res = p.Parse(Grid{{"Name", "Date", "Subject"}, {"x", "05/09/2025", "ERP"}}, SeniorLayout, Viewer{})
	assert.Equal(t, OutcomeNoHeaderFound, res.Outcome)
	assert.Empty(t, res.ByDate)
	assert.False(t, res.OK())
}

func TestParse_HeaderMustBeInLeadingRows(t *testing.T) {
	grid := make(Grid, 0, 12)
	for range 10 {
		grid = append(grid, []string{"notes"})
	}
	grid = append(grid, seniorHeader(), []string{"", "05/09/2025", "ERP"})

	res := testParser().Parse(grid, SeniorLayout, Viewer{})
	assert.Equal(t, OutcomeNoHeaderFound, res.Outcome)
}

func TestParse_Idempotent(t *testing.T) {
	grid := Grid{
		seniorHeader(),
		{"", "05/09/2025", "ERP (AG) (E&F)", "MID TERM IFM (E)"},
		{"", "", "", "IFM sec E/F"},
		{"", "06/09/2025", "PJM LCR 01 - Prof. Rao", ""},
	}
	v := Viewer{Section: models.SectionE, Subjects: []string{"ERP", "IFM", "PJM"}}

	first := testParser().Parse(grid, SeniorLayout, v)
	second := testParser().Parse(grid, SeniorLayout, v)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.ByDate.Entries())
}

func TestLayoutFor(t *testing.T) {
	assert.Equal(t, "senior", LayoutFor(models.CohortSenior).Name)
	assert.Equal(t, "junior", LayoutFor(models.CohortJunior).Name)
}
