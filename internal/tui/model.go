package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cohort/internal/attendance"
	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/schedule"
	attview "github.com/julianstephens/cohort/internal/tui/components/attendance"
	"github.com/julianstephens/cohort/internal/tui/components/calendar"
	"github.com/julianstephens/cohort/internal/tui/components/day"
	"github.com/julianstephens/cohort/internal/tui/components/exams"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateTomorrow
	StateMonth
	StateExams
	StateAttendance
	StateMarking
)

// tabCount is the number of states reachable with tab.
const tabCount = 5

var tabTitles = []string{"Today", "Tomorrow", "Month", "Exams", "Attendance"}

// Deps is what the TUI reads and writes through.
type Deps struct {
	Aggregator *schedule.Aggregator
	Tracker    *attendance.Tracker
	Profile    models.Profile
	Settings   models.RoutineSettings
	// Now returns the current time in the routine timezone.
	Now func() time.Time
}

type scheduleLoadedMsg struct {
	token     uint64
	now       time.Time
	result    schedule.Result
	err       error
	report    attendance.Report
	reportErr error
}

type markSavedMsg struct {
	rec models.DaySelections
	err error
}

// markForm holds the attendance form and the classes it lists.
type markForm struct {
	form    *huh.Form
	day     string
	classes []models.ScheduleEntry
	picked  *[]int
}

type Model struct {
	deps  Deps
	guard *schedule.Guard

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	todayModel      day.Model
	tomorrowModel   day.Model
	calendarModel   calendar.Model
	examsModel      exams.Model
	attendanceModel attview.Model
	mark            *markForm

	result   schedule.Result
	now      time.Time
	loading  bool
	status   string
	remind   bool
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	now := deps.Now()
	return Model{
		deps:            deps,
		guard:           &schedule.Guard{},
		state:           StateToday,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		todayModel:      day.New(0, 0),
		tomorrowModel:   day.New(0, 0),
		calendarModel:   calendar.New(now),
		examsModel:      exams.New(0, 0),
		attendanceModel: attview.New(0, 0),
		now:             now,
		loading:         true,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	switch m.state {
	case StateMonth:
		keys = append(keys, m.keys.Left, m.keys.Right, m.keys.PrevMonth, m.keys.NextMonth)
	case StateAttendance, StateToday:
		keys = append(keys, m.keys.Mark)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateMonth:
		actions = []key.Binding{m.keys.Left, m.keys.Right, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Today}
	case StateAttendance, StateToday:
		actions = []key.Binding{m.keys.Mark}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load fetches the routine and reconciles attendance off the UI loop. Each
// call takes a new guard token so only the newest response is applied.
func (m Model) load() tea.Cmd {
	token := m.guard.Next()
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.FetchTimeout+5*time.Second)
		defer cancel()

		msg := scheduleLoadedMsg{token: token, now: deps.Now()}
		msg.result, msg.err = deps.Aggregator.Load(ctx, deps.Profile, deps.Settings)
		if msg.err == nil && deps.Tracker != nil {
			msg.report, msg.reportErr = deps.Tracker.Report(deps.Profile, deps.Settings, msg.result.ByDate, msg.now)
		}
		return msg
	}
}
