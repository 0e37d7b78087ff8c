package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// viewHelp renders the key binding overlay
func (m Model) viewHelp() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keys"))
	b.WriteString("\n")

	full := help.New()
	full.ShowAll = true
	full.Styles.FullKey = HelpKeyStyle
	full.Styles.FullDesc = HelpStyle
	full.Styles.FullSeparator = HelpStyle
	b.WriteString(full.View(m.keys))

	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("? or Esc to close"))

	return m.center(ModalStyle.Render(b.String()))
}

// center pads a rendered block into the middle of the terminal.
func (m Model) center(block string) string {
	padLeft := (m.width - lipgloss.Width(block)) / 2
	padTop := (m.height - lipgloss.Height(block)) / 2
	if padLeft < 0 {
		padLeft = 0
	}
	if padTop < 0 {
		padTop = 0
	}

	var out strings.Builder
	out.WriteString(strings.Repeat("\n", padTop))
	for _, line := range strings.Split(block, "\n") {
		out.WriteString(strings.Repeat(" ", padLeft))
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}
