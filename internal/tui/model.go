package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/notes"
	"github.com/julianstephens/lectio/internal/tracker"
	"github.com/julianstephens/lectio/internal/tui/components/planlist"
	"github.com/julianstephens/lectio/internal/tui/components/schedule"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateSchedule
	StatePlans
)

const tabCount = 3

type Model struct {
	tracker  *tracker.Tracker
	catalog  *catalog.Catalog
	notes    *notes.Store
	state    SessionState
	keys     keyMap
	help     help.Model
	schedule schedule.Model
	planList planlist.Model
	status   *tracker.Status
	message  string // result of the last action
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(t *tracker.Tracker, c *catalog.Catalog, n *notes.Store) Model {
	m := Model{
		tracker:  t,
		catalog:  c,
		notes:    n,
		state:    StateToday,
		keys:     newKeyMap(),
		help:     help.New(),
		schedule: schedule.New(0, 0),
		planList: planlist.New(c.ListAll(), "", 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads the active plan status after any change
func (m *Model) refresh() {
	st, err := m.tracker.Status()
	switch {
	case errors.Is(err, tracker.ErrNoActivePlan):
		m.status = nil
		m.err = nil
	case err != nil:
		m.status = nil
		m.err = err
	default:
		m.status = &st
		m.err = nil
	}

	activeID := ""
	if m.status != nil {
		activeID = m.status.Plan.ID
		m.schedule.SetPlan(m.status.Plan, m.status.Progress, m.status.Summary.Day)
	}
	m.planList.SetPlans(m.catalog.ListAll(), activeID)
}

// complete marks the current reading. With ahead set the plan moves on
// to the next day immediately instead of waiting for tomorrow.
func (m *Model) complete(ahead bool) {
	st, err := m.tracker.Complete("", ahead)
	if err != nil {
		m.message = fmt.Sprintf("Could not record completion: %v", err)
		return
	}
	m.message = fmt.Sprintf("Completed %s. Streak: %d", st.Reading.ID, st.Progress.CurrentStreak)
	if ahead {
		m.message += ". Moved on to the next reading"
	}
	m.refresh()
}

func (m *Model) start(planID string) {
	plan, err := m.tracker.Start(planID)
	if err != nil {
		m.message = fmt.Sprintf("Could not start plan: %v", err)
		return
	}
	m.message = fmt.Sprintf("Now reading %s", plan.Name)
	m.refresh()
	m.state = StateToday
}

func (m Model) ShortHelp() []key.Binding {
	return append([]key.Binding{m.keys.next, m.keys.help, m.keys.quit}, m.keys.bindingsFor(m.state)...)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.next, m.keys.prev, m.keys.jump},
		m.keys.bindingsFor(StateToday),
		m.keys.bindingsFor(StatePlans),
		{m.keys.help, m.keys.quit},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the dashboard on the alternate screen
func Run(t *tracker.Tracker, c *catalog.Catalog, n *notes.Store) error {
	_, err := tea.NewProgram(NewModel(t, c, n), tea.WithAltScreen()).Run()
	return err
}
