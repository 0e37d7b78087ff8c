// Package tui provides the terminal user interface for sockmon.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	highlightColor = lipgloss.Color("#2563EB") // Blue
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	bgColor        = lipgloss.Color("#1F2937") // Dark gray
)

// Styles
var (
	// Title bar
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(bgColor).
			Padding(0, 1)

	// Status indicators
	ConnectedStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	DisconnectedStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)

	// Panel styles
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	ErrorPanelStyle = PanelStyle.
			BorderForeground(errorColor)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// List rows
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(highlightColor)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(textColor)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	HelpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Modal styles
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Background(bgColor)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// Symbols
const (
	SymbolHighlight = ">> "
	SymbolOK        = "●"
	SymbolFailed    = "○"
	SymbolBusy      = "↻"
)
