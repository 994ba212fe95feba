// Package styles holds the shared lipgloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#56B6F4") // Blue accent
	secondaryColor = lipgloss.Color("#6C6C6C") // Gray for secondary text
	successColor   = lipgloss.Color("#73F59F") // Green for success
	errorColor     = lipgloss.Color("#FF6B6B") // Red for errors
	warnColor      = lipgloss.Color("#F5D76E") // Yellow for in-progress

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// SelectedStyle for selected items in lists
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// StatusBarStyle for the bottom help bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	// HelpKeyStyle for the key token inside help bar items
	HelpKeyStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle for panel borders
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(1, 2)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarnStyle for in-progress/attention messages
	WarnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)
