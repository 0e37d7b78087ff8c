package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wellsgz/sockmon/internal/app"
	"github.com/wellsgz/sockmon/internal/types"
)

// Details pane fallbacks.
const (
	msgProcessNotFound = "Process not found."
	msgNoProcess       = "No process associated with this socket."
	msgNoSelection     = "No process selected."
	msgUsageError      = "Error loading processes."
)

// viewDashboard renders the main dashboard
func (m Model) viewDashboard() string {
	// Header and help bar take one line each
	bodyHeight := m.height - 2
	if bodyHeight < 6 {
		bodyHeight = 6
	}
	topHeight := bodyHeight * 80 / 100
	logHeight := bodyHeight - topHeight

	leftWidth := m.width * 70 / 100
	rightWidth := m.width - leftWidth

	var left string
	switch l := m.state.Listing().(type) {
	case app.Failed:
		left = panel(ErrorPanelStyle, "Error", renderError(l.Err), leftWidth, topHeight)
	case app.Loaded:
		left = panel(PanelStyle, "Connections", renderList(l, topHeight-3), leftWidth, topHeight)
	default:
		left = panel(PanelStyle, "Connections", "", leftWidth, topHeight)
	}
	right := panel(PanelStyle, "Details", m.renderDetails(), rightWidth, topHeight)
	logs := panel(PanelStyle, "Logs", m.renderLogs(logHeight-3), m.width, logHeight)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(logs)
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

// panel draws a bordered pane of exactly width x height cells.
func panel(style lipgloss.Style, title, content string, width, height int) string {
	innerW := width - 2
	innerH := height - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	body := PanelTitleStyle.Render(title) + "\n" + content
	body = lipgloss.NewStyle().MaxWidth(innerW).MaxHeight(innerH).Render(body)
	return style.Width(innerW).Height(innerH).Render(body)
}

// renderHeader renders the top header bar
func (m Model) renderHeader() string {
	var parts []string

	parts = append(parts, TitleStyle.Render("sockmon"))

	switch l := m.state.Listing().(type) {
	case app.Loaded:
		parts = append(parts, ConnectedStyle.Render(fmt.Sprintf("%s %s sockets", SymbolOK, humanize.Comma(int64(l.Sockets.Len())))))
	case app.Failed:
		parts = append(parts, DisconnectedStyle.Render(SymbolFailed+" Fetch failed"))
	}

	if at := m.state.LastRefresh(); !at.IsZero() {
		parts = append(parts, LabelStyle.Render("Updated: ")+ValueStyle.Render(at.Format("15:04:05")))
	}

	if m.fetching {
		parts = append(parts, LabelStyle.Render(SymbolBusy))
	}

	return "  " + strings.Join(parts, "  │  ")
}

// renderList renders the socket list, scrolled so the cursor is visible.
func renderList(l app.Loaded, rows int) string {
	items := l.Sockets.Items()
	if len(items) == 0 {
		return LabelStyle.Render("No sockets")
	}
	if rows < 1 {
		rows = 1
	}

	cursor, selected := l.Sockets.Selected()
	offset := 0
	if selected && cursor >= rows {
		offset = cursor - rows + 1
	}
	end := offset + rows
	if end > len(items) {
		end = len(items)
	}

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, renderRow(items[i], selected && i == cursor))
	}
	return strings.Join(lines, "\n")
}

func renderRow(s types.Socket, highlighted bool) string {
	text := types.FormatSocket(s)
	if highlighted {
		return SelectedStyle.Render(SymbolHighlight + text)
	}
	return UnselectedStyle.Render(strings.Repeat(" ", len(SymbolHighlight)) + text)
}

func renderError(err error) string {
	return ErrorStyle.Render(fmt.Sprintf("Error fetching socket information: %v", err))
}

// renderDetails renders usage of the selected socket's first owning process.
func (m Model) renderDetails() string {
	if m.state.UsageErr() != nil {
		return ErrorStyle.Render(msgUsageError)
	}

	sock, ok := m.state.SelectedSocket()
	if !ok {
		return LabelStyle.Render(msgNoSelection)
	}

	pids := sock.OwnerPIDs()
	if len(pids) == 0 {
		return LabelStyle.Render(msgNoProcess)
	}

	p, found := m.state.Usage(pids[0])
	if !found {
		return LabelStyle.Render(msgProcessNotFound)
	}

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-8s", label)))
		b.WriteString(ValueStyle.Render(value))
		b.WriteString("\n")
	}
	row("PID:", fmt.Sprintf("%d", p.PID))
	row("Name:", p.Name)
	row("Status:", p.Status.String())
	row("CPU:", fmt.Sprintf("%.2f%%", p.CPUPercent))
	row("Memory:", humanize.Comma(int64(p.MemoryKiB))+" KB")
	return strings.TrimSuffix(b.String(), "\n")
}

// renderLogs renders the newest log lines that fit.
func (m Model) renderLogs(rows int) string {
	if rows < 1 {
		rows = 1
	}
	lines := m.logs.Tail(rows)
	for i, l := range lines {
		lines[i] = LabelStyle.Render(l)
	}
	return strings.Join(lines, "\n")
}

// renderHelpBar renders the bottom help bar
func (m Model) renderHelpBar() string {
	return "  " + m.help.View(m.keys)
}
