package day

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/schedule"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	subjectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	chipBase = lipgloss.NewStyle().Padding(0, 1).MarginLeft(1)
)

// Chip renders the entry type label.
func Chip(t models.EntryType) string {
	switch t {
	case models.EntryExam:
		return chipBase.Background(lipgloss.Color("160")).Foreground(lipgloss.Color("231")).Render(t.Label())
	case models.EntrySubmission:
		return chipBase.Background(lipgloss.Color("172")).Foreground(lipgloss.Color("232")).Render(t.Label())
	default:
		return chipBase.Background(lipgloss.Color("24")).Foreground(lipgloss.Color("231")).Render(t.Label())
	}
}

// Model shows the entries of one day in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	date     time.Time
	entries  []models.ScheduleEntry
	message  string
	loaded   bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
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

// SetDay replaces the shown day. message explains an empty or unreadable
// routine and may be "".
func (m *Model) SetDay(date time.Time, entries []models.ScheduleEntry, message string) {
	m.date = date
	m.entries = entries
	m.message = message
	m.loaded = true
	m.render()
	m.viewport.GotoTop()
}

func (m *Model) render() {
	m.viewport.SetContent(Render(m.date, m.entries, m.message))
}

// Render draws a day heading followed by one line per entry.
func Render(date time.Time, entries []models.ScheduleEntry, message string) string {
	var b strings.Builder
	classes := len(schedule.Classes(entries))
	noun := "classes"
	if classes == 1 {
		noun = "class"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s · %d %s", date.Format("Monday, 02 Jan 2006"), classes, noun)))
	b.WriteString("\n")

	if message != "" && len(entries) == 0 {
		b.WriteString(emptyStyle.Render(message))
		return b.String()
	}
	if len(entries) == 0 {
		b.WriteString(emptyStyle.Render("Nothing scheduled."))
		return b.String()
	}
	for _, e := range entries {
		b.WriteString(Line(e))
		b.WriteString("\n")
	}
	return b.String()
}

// Line renders one entry.
func Line(e models.ScheduleEntry) string {
	line := timeStyle.Render(e.Time) + subjectStyle.Render(e.Subject) + Chip(e.Type)
	if e.Room != "" {
		line += " " + roomStyle.Render(e.Room)
	}
	return line
}
