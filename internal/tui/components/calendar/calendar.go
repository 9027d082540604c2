package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/routine"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/tui/components/day"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(7).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(7).
			Align(lipgloss.Center)

	outsideStyle  = cellStyle.Foreground(lipgloss.Color("236"))
	busyStyle     = cellStyle.Foreground(lipgloss.Color("39"))
	examStyle     = cellStyle.Foreground(lipgloss.Color("203")).Bold(true)
	todayStyle    = cellStyle.Underline(true)
	selectedStyle = cellStyle.Background(lipgloss.Color("236")).Foreground(lipgloss.Color("205")).Bold(true)

	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Model is a month calendar with a movable day cursor.
type Model struct {
	byDate   models.ByDate
	loc      *time.Location
	today    time.Time
	selected time.Time
	width    int
	height   int
}

func New(today time.Time) Model {
	return Model{byDate: models.ByDate{}, loc: today.Location(), today: today, selected: today}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetSchedule replaces the entries counted on each day.
func (m *Model) SetSchedule(b models.ByDate, today time.Time) {
	m.byDate = b
	m.today = today
}

// Move shifts the cursor by days; moving past the month edge turns the page.
func (m *Model) Move(days int) {
	m.selected = m.selected.AddDate(0, 0, days)
}

// MoveMonth turns the page, keeping the day of month where possible.
func (m *Model) MoveMonth(months int) {
	first := time.Date(m.selected.Year(), m.selected.Month(), 1, 0, 0, 0, 0, m.loc).AddDate(0, months, 0)
	d := min(m.selected.Day(), first.AddDate(0, 1, -1).Day())
	m.selected = first.AddDate(0, 0, d-1)
}

// Selected returns the day under the cursor.
func (m Model) Selected() time.Time {
	return m.selected
}

// Reset moves the cursor back to today.
func (m *Model) Reset() {
	m.selected = m.today
}

func (m Model) View() string {
	view := schedule.Month(m.byDate, m.selected.Year(), m.selected.Month(), m.loc)
	todayKey := routine.DateKey(m.today)
	selectedKey := routine.DateKey(m.selected)

	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("%s %d", view.Month, view.Year)))

	var head []string
	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		head = append(head, weekdayStyle.Render(name))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, head...))

	for _, week := range view.Weeks {
		var cells []string
		for _, c := range week {
			cells = append(cells, renderCell(c, todayKey, selectedKey))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	rows = append(rows, legendStyle.Render("• classes   ! exams/submissions   ←/→ day   ↑/↓ week   [/] month"))

	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	detail := day.Render(m.selected, schedule.Day(m.byDate, selectedKey), "")
	if m.width >= 100 {
		return lipgloss.JoinHorizontal(lipgloss.Top, grid, lipgloss.NewStyle().MarginLeft(4).Render(detail))
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid, "", detail)
}

func renderCell(c schedule.DayCell, todayKey, selectedKey string) string {
	label := fmt.Sprintf("%d", c.Date.Day())
	var marks strings.Builder
	if c.Classes > 0 {
		marks.WriteString("•")
	}
	if c.Exams+c.Subs > 0 {
		marks.WriteString("!")
	}
	label += marks.String()

	switch {
	case c.Key == selectedKey:
		return selectedStyle.Render(label)
	case !c.InMonth:
		return outsideStyle.Render(label)
	case c.Key == todayKey:
		return todayStyle.Render(label)
	case c.Exams+c.Subs > 0:
		return examStyle.Render(label)
	case c.Busy():
		return busyStyle.Render(label)
	default:
		return cellStyle.Render(label)
	}
}
