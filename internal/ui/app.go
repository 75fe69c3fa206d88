package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudrider/cockpit/internal/prefs"
	"github.com/cloudrider/cockpit/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Store       *state.Store
	Endpoint    string
	LogPath     string
	RefreshTick time.Duration
	Prefs       prefs.Prefs
	PrefsPath   string
}

// Model is the root application state for Bubble Tea. It only ever reads
// the store through Snapshot.
type Model struct {
	// Configuration
	store       *state.Store
	endpoint    string
	logPath     string
	prefsPath   string
	refreshTick time.Duration
	now         func() time.Time
	keys        keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    state.LiveState
	lastUpdated time.Time
	track       trackView

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	refresh := opts.RefreshTick
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}

	p := opts.Prefs
	if p.Theme == "" && p.Zoom == 0 {
		p = prefs.Default()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		store:       opts.Store,
		endpoint:    opts.Endpoint,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		refreshTick: refresh,
		now:         time.Now,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(p.Theme),
		currentView: ViewDashboard,
		track:       newTrackView(p.Follow, p.Zoom),
		logState:    newLogState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.refreshTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.LiveState(msg)
		m.lastUpdated = m.now()
		m.track.observe(m.snapshot.Position)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case logErrorMsg:
		m.logState.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewDashboard {
			return m.switchToLogs()
		}
		m.currentView = ViewDashboard
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchToLogs()

	case key.Matches(msg, m.keys.ViewDashboard), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewDashboard
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m Model) switchToLogs() (tea.Model, tea.Cmd) {
	m.currentView = ViewLogs
	return m, m.refreshLogs()
}

// handleDashboardKey drives the track view. Follow and zoom are persisted
// with the theme.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.track.setFollow(!m.track.follow)
	case key.Matches(msg, m.keys.ZoomIn):
		m.track.zoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.track.zoomOut()
	default:
		return m, nil
	}
	m.savePrefs()
	return m, nil
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:  m.theme.Name,
		Follow: m.track.follow,
		Zoom:   m.track.zoom,
	})
}

// handleTick takes a fresh snapshot on every tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.refreshTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderDashboard()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.LiveState

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or
// opts.Context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
