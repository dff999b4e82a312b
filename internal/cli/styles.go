package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	passageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func okLine(msg string) string   { return okStyle.Render("✓") + " " + msg }
func warnLine(msg string) string { return warnStyle.Render("⚠") + " " + msg }
func failLine(msg string) string { return failStyle.Render("❌") + " " + msg }

// bar renders a fixed-width progress bar for a whole percentage
func bar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return okStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}
