package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lectio/internal/tui/components/planlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, help and margins
		h, v := docStyle.GetFrameSize()
		m.schedule.SetSize(msg.Width-h, msg.Height-v-4)
		m.planList.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case planlist.StartPlanMsg:
		m.start(msg.ID)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.next):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.prev):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.jump):
			if s, ok := tabFor(msg.String()); ok {
				m.state = s
			}
			return m, nil
		}

		if m.state == StateToday {
			switch {
			case key.Matches(msg, m.keys.done):
				m.complete(false)
				return m, nil
			case key.Matches(msg, m.keys.doneNext):
				m.complete(true)
				return m, nil
			case key.Matches(msg, m.keys.reload):
				m.message = ""
				m.refresh()
				return m, nil
			}
		}
	}

	switch m.state {
	case StateSchedule:
		m.schedule, cmd = m.schedule.Update(msg)
	case StatePlans:
		m.planList, cmd = m.planList.Update(msg)
	}
	return m, cmd
}
