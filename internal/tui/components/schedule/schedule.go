package schedule

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lectio/internal/models"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(9)

	passageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// Model lists every reading of the active plan, marking completed ones and
// the current day.
type Model struct {
	viewport viewport.Model
	plan     *models.ReadingPlan
	progress *models.PlanProgress
	day      int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.plan == nil {
		return "No active plan. Pick one on the Plans tab."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetPlan(plan models.ReadingPlan, pp *models.PlanProgress, day int) {
	m.plan = &plan
	m.progress = pp
	m.day = day
	m.Render()
}

func (m *Model) Render() {
	if m.plan == nil {
		m.viewport.SetContent("No plan loaded.")
		return
	}

	var b strings.Builder
	for _, r := range m.plan.Readings {
		mark := "  "
		if m.progress != nil && m.progress.HasCompleted(r.ID) {
			mark = doneStyle.Render("✓ ")
		}

		passages := strings.Join(r.Passages, "; ")
		if r.Day == m.day {
			passages = currentStyle.Render(passages + "  ← today")
		} else {
			passages = passageStyle.Render(passages)
		}

		fmt.Fprintf(&b, "%s%s %s\n", mark, dayStyle.Render(fmt.Sprintf("Day %d", r.Day)), passages)
	}
	m.viewport.SetContent(b.String())

	// keep today's reading in view
	if m.day > m.viewport.Height/2 {
		m.viewport.SetYOffset(m.day - m.viewport.Height/2)
	}
}
