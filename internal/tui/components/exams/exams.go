package exams

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/tui/components/day"
)

var (
	dateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginTop(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model lists upcoming exams, events and submissions.
type Model struct {
	viewport viewport.Model
	entries  []schedule.DatedEntry
	loc      *time.Location
	loaded   bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height), loc: time.Local}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return emptyStyle.Render("Loading routine...")
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

// SetEntries replaces the list with the exams on or after today.
func (m *Model) SetEntries(entries []schedule.DatedEntry, today time.Time) {
	m.entries = schedule.Upcoming(entries, today)
	m.loc = today.Location()
	m.loaded = true
	m.render()
}

func (m *Model) render() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(emptyStyle.Render("No upcoming exams or events."))
		return
	}
	var b strings.Builder
	current := ""
	for _, e := range m.entries {
		if e.Date != current {
			current = e.Date
			label := e.Date
			if t, err := time.ParseInLocation("2006-01-02", e.Date, m.loc); err == nil {
				label = t.Format("Mon, 02 Jan 2006")
			}
			b.WriteString(dateStyle.Render(label))
			b.WriteString("\n")
		}
		b.WriteString(day.Line(e.ScheduleEntry))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}
