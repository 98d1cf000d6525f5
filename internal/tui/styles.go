// Package tui provides an interactive terminal browser for analysis results.
//
// The TUI uses Bubble Tea for the application framework, Lipgloss for
// styling, and a Bubbles viewport for scrolling the report. Unlike a live
// dashboard, the data is static: one finished analysis, browsed at leisure.
package tui

import "github.com/charmbracelet/lipgloss"

// Colors based on a modern dark theme
var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess   = lipgloss.Color("#10B981") // Green
	colorWarning   = lipgloss.Color("#F59E0B") // Amber

	colorText      = lipgloss.Color("#E5E7EB") // Light gray
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
	colorBorder    = lipgloss.Color("#374151") // Border gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	bodyStyle = lipgloss.NewStyle().
			Foreground(colorText)

	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(0, 1)
)
