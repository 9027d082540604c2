package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/models"
)

func sampleByDate() models.ByDate {
	return models.ByDate{
		"2025-09-05": {
			{Time: "2:00 pm", Subject: "MST", Type: models.EntryClass},
			{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass},
			{Time: "10:45", Subject: "MID TERM IFM", Type: models.EntryExam},
		},
		"2025-09-06": {
			{Time: "09:00 - 10:30", Subject: "ERP", Type: models.EntryClass},
			{Time: "11:00", Subject: "IFM project submission", Type: models.EntrySubmission},
		},
		"2025-08-29": {
			{Time: "09:00", Subject: "Orientation Event", Type: models.EntryExam},
		},
	}
}

func TestDay_SortsBySlotAndCopies(t *testing.T) {
	b := sampleByDate()
	day := Day(b, "2025-09-05")

	require.Len(t, day, 3)
	assert.Equal(t, []string{"ERP", "MID TERM IFM", "MST"}, []string{day[0].Subject, day[1].Subject, day[2].Subject})

	day[0].Subject = "changed"
	assert.Equal(t, "MST", b["2025-09-05"][0].Subject)
	assert.Empty(t, Day(b, "2030-01-01"))
}

func TestTodayTomorrow(t *testing.T) {
	now := time.Date(2025, 9, 5, 22, 30, 0, 0, time.UTC)
	b := sampleByDate()

	assert.Len(t, Today(b, now), 3)
	assert.Len(t, Tomorrow(b, now), 2)
}

func TestMonth(t *testing.T) {
	view := Month(sampleByDate(), 2025, time.September, time.UTC)

	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, time.September, view.Month)
	require.Len(t, view.Weeks, 5)

	// September 2025 starts on a Monday.
	first := view.Weeks[0][0]
	assert.Equal(t, "2025-09-01", first.Key)
	assert.True(t, first.InMonth)

	fri := view.Weeks[0][4]
	assert.Equal(t, "2025-09-05", fri.Key)
	assert.Equal(t, 2, fri.Classes)
	assert.Equal(t, 1, fri.Exams)
	assert.True(t, fri.Busy())

	sat := view.Weeks[0][5]
	assert.Equal(t, 1, sat.Subs)

	last := view.Weeks[4][6]
	assert.Equal(t, "2025-10-05", last.Key)
	assert.False(t, last.InMonth)
	assert.False(t, last.Busy())
}

func TestMonth_PadsLeadingDays(t *testing.T) {
	view := Month(models.ByDate{}, 2025, time.August, time.UTC)

	// August 2025 starts on a Friday.
	assert.Equal(t, "2025-07-28", view.Weeks[0][0].Key)
	assert.False(t, view.Weeks[0][0].InMonth)
	assert.Equal(t, "2025-08-01", view.Weeks[0][4].Key)
	for _, week := range view.Weeks {
		assert.Len(t, week, 7)
	}
	lastWeek := view.Weeks[len(view.Weeks)-1]
	assert.Equal(t, "2025-08-31", lastWeek[6].Key)
}

func TestExams(t *testing.T) {
	got := Exams(sampleByDate())
	require.Len(t, got, 3)

	assert.Equal(t, "2025-08-29", got[0].Date)
	assert.Equal(t, "Orientation Event", got[0].Subject)
	assert.Equal(t, "MID TERM IFM", got[1].Subject)
	assert.Equal(t, models.EntrySubmission, got[2].Type)

	upcoming := Upcoming(got, time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC))
	assert.Len(t, upcoming, 2)
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, []string{"ERP", "MST"}, Subjects(sampleByDate()))
	assert.Empty(t, Subjects(models.ByDate{}))
}

func TestSubjects_CaseSpellingsAreStable(t *testing.T) {
	b := models.ByDate{
		"2025-09-01": {{Subject: "erp", Type: models.EntryClass}},
		"2025-09-02": {{Subject: "Erp", Type: models.EntryClass}},
		"2025-09-03": {{Subject: "ERP", Type: models.EntryClass}},
		"2025-09-04": {{Subject: "Ifm", Type: models.EntryClass}},
		"2025-09-05": {{Subject: "IFM", Type: models.EntryClass}},
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, []string{"ERP", "IFM"}, Subjects(b))
	}
}

func TestClasses(t *testing.T) {
	got := Classes(sampleByDate()["2025-09-05"])
	assert.Len(t, got, 2)
	for _, e := range got {
		assert.True(t, e.IsClass())
	}
}
