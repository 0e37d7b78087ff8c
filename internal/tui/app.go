package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wellsgz/sockmon/internal/app"
	"github.com/wellsgz/sockmon/internal/logbuf"
)

// DefaultRefreshInterval is how often sockets are re-fetched.
const DefaultRefreshInterval = 2 * time.Second

// KeyMap defines the key bindings
type KeyMap struct {
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Help    key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Messages
type tickMsg time.Time

// refreshMsg hands a finished fetch back to the event loop.
type refreshMsg app.Refresh

// Options configures the dashboard.
type Options struct {
	RefreshInterval time.Duration
	Logs            *logbuf.Ring
}

// Model is the main TUI model. It owns the application state: the state is
// only mutated from Update, and fetch results arrive as messages.
type Model struct {
	state    *app.State
	logs     *logbuf.Ring
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	// fetching is set while a fetch command is running; ticks that arrive in
	// the meantime do not start a second one.
	fetching bool
	quitting bool
	showHelp bool

	width, height int

	keys KeyMap
	help help.Model
}

// New creates a new TUI model around an initialized state.
func New(state *app.State, opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Logs == nil {
		opts.Logs = logbuf.New(logbuf.DefaultCapacity)
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := help.New()
	h.Styles.ShortKey = HelpKeyStyle
	h.Styles.ShortDesc = HelpStyle
	h.Styles.ShortSeparator = HelpStyle

	return Model{
		state:    state,
		logs:     opts.Logs,
		interval: opts.RefreshInterval,
		ctx:      ctx,
		cancel:   cancel,
		keys:     DefaultKeyMap,
		help:     h,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetch runs the blocking socket and process reads off the event goroutine.
// The result is applied when it comes back as a refreshMsg.
func (m Model) fetch() tea.Cmd {
	state, ctx := m.state, m.ctx
	return func() tea.Msg {
		return refreshMsg(state.Fetch(ctx))
	}
}

// startFetch returns a fetch command unless one is already in flight.
func (m *Model) startFetch() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	return m.fetch()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(m.startFetch(), m.tick())

	case refreshMsg:
		m.fetching = false
		m.state.Apply(app.Refresh(msg))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
			m.showHelp = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.state.SelectNext()

	case key.Matches(msg, m.keys.Up):
		m.state.SelectPrevious()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startFetch()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.viewHelp()
	}
	return m.viewDashboard()
}
