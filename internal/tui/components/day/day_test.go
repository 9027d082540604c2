package day

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/cohort/internal/models"
)

var friday = time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)

func TestRender(t *testing.T) {
	entries := []models.ScheduleEntry{
		{Time: "09:00 - 10:30", Subject: "ERP", Room: "LCR 01", Type: models.EntryClass},
		{Time: "13:15 - 14:45", Subject: "MID TERM IFM", Type: models.EntryExam},
	}
	out := Render(friday, entries, "")

	assert.Contains(t, out, "Friday, 05 Sep 2025 · 1 class")
	assert.Contains(t, out, "ERP")
	assert.Contains(t, out, "LCR 01")
	assert.Contains(t, out, "Exam/Event")
}

func TestRenderEmpty(t *testing.T) {
	assert.Contains(t, Render(friday, nil, ""), "Nothing scheduled.")
	assert.Contains(t, Render(friday, nil, "Routine format not recognized."), "Routine format not recognized.")
	assert.Contains(t, Render(friday, nil, ""), "0 classes")
}

func TestModelSetDay(t *testing.T) {
	m := New(60, 10)
	assert.Contains(t, m.View(), "Loading routine...")

	m.SetDay(friday, []models.ScheduleEntry{{Time: "09:00", Subject: "ERP", Type: models.EntryClass}}, "")
	assert.Contains(t, m.View(), "ERP")
}
