package attendance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/models"
)

func class(subject, at string) models.ScheduleEntry {
	return models.ScheduleEntry{Time: at, Subject: subject, Type: models.EntryClass}
}

// tenDaysOfERP schedules one ERP class on each of 2025-09-01..10.
func tenDaysOfERP() models.ByDate {
	b := models.ByDate{}
	for d := 1; d <= 10; d++ {
		b[fmt.Sprintf("2025-09-%02d", d)] = []models.ScheduleEntry{class("ERP", "09:00")}
	}
	return b
}

func TestReconcile_Arithmetic(t *testing.T) {
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	baseline := &models.AttendanceBaseline{Missed: map[string]int{"ERP": 2}}

	report := Reconcile(tenDaysOfERP(), w, baseline, nil, []string{"ERP"})
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, 10, row.Scheduled)
	assert.Equal(t, 1, row.ScheduledToday)
	assert.Equal(t, 1, row.MissedToday)
	assert.Equal(t, 3, row.Missed)
	assert.Equal(t, 7, row.Attended)
	assert.InDelta(t, 70.0, row.Percent, 1e-9)
	assert.Equal(t, 70, row.Pct())
}

func TestReconcile_TodayAttended(t *testing.T) {
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	today := &models.DaySelections{
		Day:        "2025-09-10",
		Selections: []models.Selection{{Subject: "ERP", Time: "09:00"}},
		Submitted:  true,
	}

	row := Reconcile(tenDaysOfERP(), w, nil, today, []string{"ERP"}).Rows[0]
	assert.Equal(t, 0, row.MissedToday)
	assert.Equal(t, 10, row.Attended)
	assert.Equal(t, 100, row.Pct())
}

func TestReconcile_SelectionsForOtherDayIgnored(t *testing.T) {
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	stale := &models.DaySelections{Day: "2025-09-09", Selections: []models.Selection{{Subject: "ERP"}}}

	row := Reconcile(tenDaysOfERP(), w, nil, stale, []string{"ERP"}).Rows[0]
	assert.Equal(t, 1, row.MissedToday)
}

func TestReconcile_NothingScheduled(t *testing.T) {
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	report := Reconcile(models.ByDate{}, w, nil, nil, []string{"MST"})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 0, report.Rows[0].Scheduled)
	assert.Equal(t, 0.0, report.Rows[0].Percent)
	assert.Equal(t, 0, report.Totals.AveragePct)
}

func TestReconcile_AttendedNeverNegative(t *testing.T) {
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	baseline := &models.AttendanceBaseline{Missed: map[string]int{"ERP": 50}}

	row := Reconcile(tenDaysOfERP(), w, baseline, nil, []string{"ERP"}).Rows[0]
	assert.Equal(t, 0, row.Attended)
	assert.Equal(t, 0, row.Pct())
}

func TestReconcile_CountsOnlyClassesInWindow(t *testing.T) {
	b := models.ByDate{
		"2025-08-31": {class("ERP", "09:00")},
		"2025-09-02": {
			class("ERP", "09:00"),
			{Time: "11:00", Subject: "ERP QUIZ", Type: models.EntryExam},
			{Time: "12:00", Subject: "ERP report due", Type: models.EntrySubmission},
		},
		"2025-09-11": {class("ERP", "09:00")},
	}
	w := Window{Start: "2025-09-01", End: "2025-09-10"}

	row := Reconcile(b, w, nil, nil, []string{"ERP"}).Rows[0]
	assert.Equal(t, 1, row.Scheduled)
	assert.Equal(t, 0, row.ScheduledToday)
}

func TestReconcile_SubjectMatchingIsCanonical(t *testing.T) {
	b := models.ByDate{"2025-09-10": {class("ERP", "09:00"), class("PJM", "10:00")}}
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	today := &models.DaySelections{Day: "2025-09-10", Selections: []models.Selection{{Subject: "erp"}}}
	baseline := &models.AttendanceBaseline{Missed: map[string]int{"PJM 2": 1}}

	report := Reconcile(b, w, baseline, today, []string{"ERP (AG)", "PJM", "erp"})
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "ERP (AG)", report.Rows[0].Subject)
	assert.Equal(t, 1, report.Rows[0].Attended)
	assert.Equal(t, 2, report.Rows[1].Missed)
}

func TestReconcile_DefaultRowsAndTotals(t *testing.T) {
	b := models.ByDate{
		"2025-09-09": {class("MST", "09:00"), class("ERP", "10:00")},
		"2025-09-10": {class("MST", "09:00")},
	}
	w := Window{Start: "2025-09-01", End: "2025-09-10"}
	baseline := &models.AttendanceBaseline{Missed: map[string]int{"ERP": 1}}
	today := &models.DaySelections{Day: "2025-09-10", Selections: []models.Selection{{Subject: "MST"}}}

	report := Reconcile(b, w, baseline, today, nil)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "ERP", report.Rows[0].Subject)
	assert.Equal(t, "MST", report.Rows[1].Subject)

	assert.Equal(t, Totals{Scheduled: 3, Attended: 2, Missed: 1, AveragePct: 50}, report.Totals)
	assert.Equal(t, w, report.Window)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(3, -1))
	assert.InDelta(t, 66.666, Percentage(2, 3), 0.001)
}
