package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lectio/internal/errors"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateSchedule:
		content = docStyle.Render(m.schedule.View())
	case StatePlans:
		content = docStyle.Render(m.planList.View())
	}

	parts := []string{m.viewTabs(), content}
	if m.message != "" {
		parts = append(parts, statusStyle.Render(m.message))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Schedule", "Plans"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	if m.err != nil {
		return docStyle.Render(errors.Format(m.err))
	}
	if m.status == nil {
		return docStyle.Render("No active plan.\nPick one on the Plans tab and press enter.")
	}

	st := m.status
	sum := st.Summary
	var b strings.Builder

	b.WriteString(headingStyle.Render(st.Plan.Name))
	fmt.Fprintf(&b, "\nDay %d of %d", min(sum.Day, sum.TotalDays), sum.TotalDays)
	if sum.Day > sum.TotalDays {
		b.WriteString(mutedStyle.Render("  (schedule finished)"))
	}
	b.WriteString("\n\n")

	for _, p := range st.Reading.Passages {
		b.WriteString(passageStyle.Render(p) + "\n")
	}
	if st.Reading.Theme != "" {
		b.WriteString(mutedStyle.Render(st.Reading.Theme) + "\n")
	}
	b.WriteString("\n")

	if sum.CompletedToday {
		b.WriteString(doneStyle.Render("✓ Completed today") + "\n")
	} else {
		b.WriteString(mutedStyle.Render("Press c once read, or n to read ahead") + "\n")
	}
	fmt.Fprintf(&b, "Streak: %d (longest %d)\n", sum.CurrentStreak, sum.LongestStreak)
	fmt.Fprintf(&b, "Progress: %d/%d readings (%d%%)\n", sum.Completed, sum.TotalDays, sum.Percentage)

	if n, ok := m.notes.GetForReading(st.Reading.ID); ok {
		b.WriteString("\n" + mutedStyle.Render("Note: ") + n.Content + "\n")
	}

	return docStyle.Render(b.String())
}
