package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// Text-mode render styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	branchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	statusStyles = map[types.BranchStatus]lipgloss.Style{
		types.BranchStatusNotStarted: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		types.BranchStatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		types.BranchStatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// renderBranchStatus colors a branch status for text output.
func renderBranchStatus(status types.BranchStatus) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status.String())
	}
	return status.String()
}

// renderTaskStatus marks tasks with a compact status glyph.
func renderTaskStatus(status types.TaskStatus) string {
	switch status {
	case types.TaskStatusCompleted:
		return titleStyle.Render("✓")
	case types.TaskStatusInProgress:
		return warnStyle.Render("▶")
	case types.TaskStatusBlocked:
		return warnStyle.Render("✗")
	case types.TaskStatusSkipped:
		return dimStyle.Render("-")
	default:
		return dimStyle.Render("·")
	}
}
