package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cohort/internal/attendance"
	"github.com/julianstephens/cohort/internal/logger"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/schedule"
	"github.com/julianstephens/cohort/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case scheduleLoadedMsg:
		m.guard.Commit(msg.token, func() { m.apply(msg) })
		return m, nil

	case markSavedMsg:
		if msg.err != nil {
			m.status = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Attendance saved for %s.", msg.rec.Day)
		m.loading = true
		return m, m.load()
	}

	if m.state == StateMarking {
		return m.updateMarking(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.status = "Reloading routine..."
			return m, m.load()
		case key.Matches(msg, m.keys.Mark) && (m.state == StateToday || m.state == StateAttendance):
			return m.startMarking()
		}

		if m.state == StateMonth {
			switch {
			case key.Matches(msg, m.keys.Left):
				m.calendarModel.Move(-1)
			case key.Matches(msg, m.keys.Right):
				m.calendarModel.Move(1)
			case key.Matches(msg, m.keys.Up):
				m.calendarModel.Move(-7)
			case key.Matches(msg, m.keys.Down):
				m.calendarModel.Move(7)
			case key.Matches(msg, m.keys.PrevMonth):
				m.calendarModel.MoveMonth(-1)
			case key.Matches(msg, m.keys.NextMonth):
				m.calendarModel.MoveMonth(1)
			case key.Matches(msg, m.keys.Today):
				m.calendarModel.Reset()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case StateTomorrow:
		m.tomorrowModel, cmd = m.tomorrowModel.Update(msg)
	case StateExams:
		m.examsModel, cmd = m.examsModel.Update(msg)
	case StateAttendance:
		m.attendanceModel, cmd = m.attendanceModel.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// apply installs a committed load result into every view.
func (m *Model) apply(msg scheduleLoadedMsg) {
	m.loading = false
	m.now = msg.now
	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		logger.Warn("routine load failed", "error", msg.err)
		return
	}

	m.err = nil
	m.result = msg.result
	m.status = msg.result.Message()
	if m.status == "" && !msg.result.FetchedAt.IsZero() {
		m.status = "Routine loaded at " + msg.result.FetchedAt.In(msg.now.Location()).Format("15:04")
	}

	b := msg.result.ByDate
	message := msg.result.Message()
	today := utils.StartOfDay(msg.now)
	tomorrow := today.AddDate(0, 0, 1)
	m.todayModel.SetDay(today, schedule.Today(b, msg.now), message)
	m.tomorrowModel.SetDay(tomorrow, schedule.Tomorrow(b, msg.now), message)
	m.calendarModel.SetSchedule(b, msg.now)
	m.examsModel.SetEntries(schedule.Exams(b), msg.now)

	if msg.reportErr != nil {
		m.err = msg.reportErr
		return
	}
	m.attendanceModel.SetReport(msg.report)
	m.remind = m.reminderDue()
}

func (m *Model) resize() {
	// tabs, status and help lines
	h := max(3, m.height-6)
	w := max(20, m.width-4)
	m.todayModel.SetSize(w, h)
	m.tomorrowModel.SetSize(w, h)
	m.calendarModel.SetSize(w, h)
	m.examsModel.SetSize(w, h)
	m.attendanceModel.SetSize(w, h)
}

// startMarking opens the attendance form for today's classes.
func (m Model) startMarking() (tea.Model, tea.Cmd) {
	if m.loading {
		m.status = "Routine is still loading."
		return m, nil
	}
	if m.deps.Tracker == nil {
		return m, nil
	}
	dayKey := utils.DateKey(m.now)
	classes := schedule.Classes(schedule.Today(m.result.ByDate, m.now))
	if len(classes) == 0 {
		m.status = "No classes to mark today."
		return m, nil
	}

	prev, err := m.deps.Tracker.Day(m.deps.Profile.Email, dayKey)
	if err != nil {
		m.err = err
		return m, nil
	}

	picked := preselect(classes, prev)
	options := make([]huh.Option[int], 0, len(classes))
	for i, e := range classes {
		label := e.Subject
		if e.Time != "" {
			label = e.Time + "  " + e.Subject
		}
		options = append(options, huh.NewOption(label, i).Selected(containsIndex(picked, i)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Attendance for " + m.now.Format("Mon, 02 Jan 2006")).
				Description("Select the classes you attended. Submit with none selected if you missed them all.").
				Options(options...).
				Value(&picked),
		),
	).WithShowHelp(true)

	m.mark = &markForm{form: form, day: dayKey, classes: classes, picked: &picked}
	m.previousState = m.state
	m.state = StateMarking
	return m, form.Init()
}

func (m Model) updateMarking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.mark = nil
		m.state = m.previousState
		m.status = "Marking cancelled."
		return m, nil
	}

	form, cmd := m.mark.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.mark.form = f
	}

	switch m.mark.form.State {
	case huh.StateCompleted:
		mark := m.mark
		m.mark = nil
		m.state = m.previousState
		m.status = "Saving attendance..."
		return m, m.save(mark)
	case huh.StateAborted:
		m.mark = nil
		m.state = m.previousState
		m.status = "Marking cancelled."
		return m, nil
	}
	return m, cmd
}

func (m Model) save(mark *markForm) tea.Cmd {
	tracker := m.deps.Tracker
	email := m.deps.Profile.Email
	attended := make([]models.ScheduleEntry, 0, len(*mark.picked))
	for _, i := range *mark.picked {
		if i >= 0 && i < len(mark.classes) {
			attended = append(attended, mark.classes[i])
		}
	}
	return func() tea.Msg {
		rec, err := tracker.Mark(email, mark.day, attendance.SelectionsFor(attended), "")
		return markSavedMsg{rec: rec, err: err}
	}
}

// preselect returns the indexes of classes already recorded for the day.
func preselect(classes []models.ScheduleEntry, prev *models.DaySelections) []int {
	if prev == nil {
		return nil
	}
	var out []int
	for i, e := range classes {
		for _, s := range prev.Selections {
			if s.Subject == e.Subject && s.Time == e.Time {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

func containsIndex(xs []int, i int) bool {
	for _, x := range xs {
		if x == i {
			return true
		}
	}
	return false
}

// reminderDue reports whether today's classes still need marking.
func (m Model) reminderDue() bool {
	if m.deps.Tracker == nil {
		return false
	}
	classes := len(schedule.Classes(schedule.Today(m.result.ByDate, m.now)))
	if classes == 0 {
		return false
	}
	rec, err := m.deps.Tracker.Day(m.deps.Profile.Email, utils.DateKey(m.now))
	if err != nil {
		return false
	}
	return attendance.ReminderDue(m.now, m.deps.Settings.Reminder(), classes, rec)
}
