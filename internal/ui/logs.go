package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cloudrider/cockpit/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	entries []logtail.Entry
	level   string // minimum level shown; "" shows everything
	follow  bool
	err     error
	loaded  bool
}

func newLogState() logState {
	return logState{follow: true}
}

type logLinesMsg struct {
	lines []string
}

type logErrorMsg struct {
	err error
}

// refreshLogs reads the tail of the log file off the UI goroutine.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logLinesMsg{lines: lines}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.entries = logtail.ParseAll(msg.lines)
	m.logState.err = nil
	m.logState.loaded = true
	m.updateLogViewport()
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(maxInt(m.width-4, 1), maxInt(m.height-6, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and refreshes its content.
func (m *Model) updateLogViewport() {
	// Box height = m.height - 3 (header, cmdbar, status line below)
	// Inner = box height - 3 (borders and title)
	m.logViewport.Width = maxInt(m.width-4, 1)
	m.logViewport.Height = maxInt(m.height-6, 1)
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	visible := logtail.Filter(m.logState.entries, m.logState.level)
	if len(visible) == 0 {
		switch {
		case m.logPath == "":
			return styles.FaintText.Render("logging to the terminal; no log file to show")
		case !m.logState.loaded:
			return styles.FaintText.Render("reading log...")
		}
		return styles.FaintText.Render("no log entries")
	}

	lines := make([]string, 0, len(visible))
	for _, e := range visible {
		lines = append(lines, m.formatLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatLogEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.FaintText.Render(e.Raw)
	}
	var levelStyle lipgloss.Style
	switch e.Level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		levelStyle = styles.DangerText
	case "WARN":
		levelStyle = styles.WarningText.Bold(true)
	case "INFO":
		levelStyle = styles.SuccessText
	default:
		levelStyle = styles.InfoText
	}

	ts := e.Time
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+9 {
		ts = ts[i+1 : i+9]
	}

	parts := []string{
		styles.FaintText.Render(ts),
		levelStyle.Render(padRight(e.Level, 5)),
		styles.Text.Render(e.Message),
	}
	if e.Fields != "" {
		parts = append(parts, styles.MutedText.Render(e.Fields))
	}
	return strings.Join(parts, " ")
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleTail):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs()
		}
	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.level = logtail.NextLevel(m.logState.level)
		m.updateLogViewport()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logState.follow = false
		m.logViewport.HalfViewUp()
	}
	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	contentHeight := maxInt(m.height-3, 3)

	title := "Log"
	if m.logState.level != "" {
		title = fmt.Sprintf("Log (%s and above)", m.logState.level)
	}
	box := m.renderBox(title, m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the line under the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.err != nil {
		return bg.Render(truncate(m.logState.err.Error(), maxInt(m.width-2, 10)), styles.DangerText)
	}
	status := fmt.Sprintf("%d lines  auto-tail %s", len(m.logState.entries), ternary(m.logState.follow, "on", "off"))
	parts := []string{bg.Render(status, styles.FaintText)}
	if m.logPath != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// levelLabel names a filter level for the command bar.
func levelLabel(level string) string {
	if level == "" {
		return "all"
	}
	return strings.ToLower(level) + "+"
}
