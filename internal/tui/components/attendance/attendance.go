package attendance

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	att "github.com/julianstephens/cohort/internal/attendance"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	lowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

// LowPct is the percentage below which a subject is flagged.
const LowPct = 75

// Model shows the reconciled attendance report as a table.
type Model struct {
	table  table.Model
	report att.Report
	loaded bool
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return Model{table: t}
}

func columns(width int) []table.Column {
	subject := max(20, width-4*11-10)
	return []table.Column{
		{Title: "Subject", Width: subject},
		{Title: "Scheduled", Width: 10},
		{Title: "Attended", Width: 10},
		{Title: "Missed", Width: 10},
		{Title: "%", Width: 6},
	}
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(3, height-4))
}

// SetReport replaces the table rows.
func (m *Model) SetReport(r att.Report) {
	m.report = r
	m.loaded = true
	rows := make([]table.Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, table.Row{
			row.Subject,
			strconv.Itoa(row.Scheduled),
			strconv.Itoa(row.Attended),
			strconv.Itoa(row.Missed),
			strconv.Itoa(row.Pct()),
		})
	}
	m.table.SetRows(rows)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return hintStyle.Render("Loading attendance...")
	}
	t := m.report.Totals
	summary := fmt.Sprintf("%s → %s · %d of %d classes attended · average %d%%",
		m.report.Window.Start, m.report.Window.End, t.Attended, t.Scheduled, t.AveragePct)

	var low []string
	for _, row := range m.report.Rows {
		if row.Scheduled > 0 && row.Pct() < LowPct {
			low = append(low, row.Subject)
		}
	}

	out := summaryStyle.Render(summary) + "\n" + m.table.View()
	if len(low) > 0 {
		out += "\n" + lowStyle.Render(fmt.Sprintf("Below %d%%: %v", LowPct, low))
	}
	out += "\n" + hintStyle.Render("Press m to mark today's attendance.")
	return out
}
