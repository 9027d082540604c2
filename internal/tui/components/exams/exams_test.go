package exams

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/schedule"
)

func TestSetEntriesKeepsUpcoming(t *testing.T) {
	m := New(60, 20)
	assert.Contains(t, m.View(), "Loading routine...")

	today := time.Date(2025, 9, 5, 12, 0, 0, 0, time.UTC)
	m.SetEntries([]schedule.DatedEntry{
		{Date: "2025-09-01", ScheduleEntry: models.ScheduleEntry{Subject: "QUIZ ERP", Type: models.EntryExam}},
		{Date: "2025-09-05", ScheduleEntry: models.ScheduleEntry{Subject: "MID TERM IFM", Type: models.EntryExam}},
		{Date: "2025-09-12", ScheduleEntry: models.ScheduleEntry{Subject: "ERP REPORT", Type: models.EntrySubmission}},
	}, today)

	out := m.View()
	assert.NotContains(t, out, "QUIZ ERP")
	assert.Contains(t, out, "Fri, 05 Sep 2025")
	assert.Contains(t, out, "MID TERM IFM")
	assert.Contains(t, out, "ERP REPORT")
}

func TestSetEntriesEmpty(t *testing.T) {
	m := New(60, 20)
	m.SetEntries(nil, time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, m.View(), "No upcoming exams or events.")
}
