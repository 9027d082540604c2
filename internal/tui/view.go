package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = docStyle.Render(m.todayModel.View())
	case StateTomorrow:
		content = docStyle.Render(m.tomorrowModel.View())
	case StateMonth:
		content = docStyle.Render(m.calendarModel.View())
	case StateExams:
		content = docStyle.Render(m.examsModel.View())
	case StateAttendance:
		content = docStyle.Render(m.attendanceModel.View())
	case StateMarking:
		content = docStyle.Render(m.mark.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active == StateMarking {
		active = m.previousState
	}
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	p := m.deps.Profile
	viewer := fmt.Sprintf("  %s · %s %s", p.Email, p.Cohort, p.Section)
	return header + statusStyle.Render(viewer)
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return dangerStyle.Render("Error: " + m.err.Error())
	case m.loading && m.status == "":
		return statusStyle.Render("Loading routine...")
	case m.remind && m.state != StateMarking:
		line := "Today's attendance is not marked yet. Press m to mark it."
		if m.status != "" {
			line = m.status + " · " + line
		}
		return warningStyle.Render(line)
	default:
		return statusStyle.Render(m.status)
	}
}
