package planlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lectio/internal/models"
)

// StartPlanMsg asks the parent model to make a plan active
type StartPlanMsg struct {
	ID string
}

type Item struct {
	Plan   models.ReadingPlan
	Active bool
}

func (i Item) Title() string {
	if i.Active {
		return "▶ " + i.Plan.Name
	}
	return i.Plan.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %d days", i.Plan.Type, i.Plan.TotalDays)
	if i.Plan.EstimatedDuration != "" {
		desc += " | " + i.Plan.EstimatedDuration
	}
	return desc
}

func (i Item) FilterValue() string { return i.Plan.Name }

type Model struct {
	list  list.Model
	start key.Binding
}

func New(plans []models.ReadingPlan, activeID string, width, height int) Model {
	l := list.New(items(plans, activeID), list.NewDefaultDelegate(), width, height)
	l.Title = "Plans"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model

	start := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start plan"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{start} }

	return Model{list: l, start: start}
}

func items(plans []models.ReadingPlan, activeID string) []list.Item {
	out := make([]list.Item, len(plans))
	for i, p := range plans {
		out[i] = Item{Plan: p, Active: p.ID == activeID}
	}
	return out
}

func (m *Model) SetPlans(plans []models.ReadingPlan, activeID string) {
	m.list.SetItems(items(plans, activeID))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.start) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return StartPlanMsg{ID: i.Plan.ID} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No plans available."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
