package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	att "github.com/julianstephens/cohort/internal/attendance"
)

func TestView(t *testing.T) {
	m := New(80, 12)
	assert.Contains(t, m.View(), "Loading attendance...")

	m.SetReport(att.Report{
		Window: att.Window{Start: "2025-09-01", End: "2025-09-05"},
		Rows: []att.Row{
			{Subject: "ERP", Scheduled: 4, Attended: 4, Percent: 100},
			{Subject: "IFM", Scheduled: 4, Attended: 2, Missed: 2, Percent: 50},
			{Subject: "MST"},
		},
		Totals: att.Totals{Scheduled: 8, Attended: 6, Missed: 2, AveragePct: 50},
	})

	out := m.View()
	assert.Contains(t, out, "2025-09-01 → 2025-09-05 · 6 of 8 classes attended · average 50%")
	assert.Contains(t, out, "Below 75%: [IFM]")
	assert.Contains(t, out, "Press m to mark today's attendance.")
}
