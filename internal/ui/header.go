package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cloudrider/cockpit/internal/state"
)

// linkLabel returns the badge text for the snapshot's link. A streaming link
// whose heartbeat has gone quiet is reported as stale.
func (m Model) linkLabel() string {
	status := m.snapshot.Link
	if status == "" {
		status = state.LinkIdle
	}
	if status == state.LinkStreaming {
		if age, ok := heartbeatAge(m.snapshot.Heartbeat, m.now()); ok && age > staleAfter {
			return "stale"
		}
	}
	return string(status)
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	link := m.linkLabel()
	parts := []string{
		bg.Render("cockpit", styles.Logo),
		styles.LinkStyle(link).Render(strings.ToUpper(link)),
	}

	endpointMax := 48
	if compact {
		endpointMax = 24
	}
	if m.endpoint != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.endpoint, endpointMax), styles.MutedText))
	}

	if !m.snapshot.HasAny() {
		parts = append(parts, bg.Render("awaiting telemetry", styles.FaintText))
	}

	parts = append(parts,
		bg.Render("Msgs:", styles.MutedText)+bg.Space()+
			bg.Render(humanize.Comma(int64(m.snapshot.Stats.MessageCount)), styles.Text),
	)

	if !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.lastUpdated.Format("15:04:05"), styles.FaintText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		errText := truncate(fmt.Sprintf("%v", m.snapshot.LastError), maxErr)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText),
		)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"Space", ternary(m.logState.follow, "Pause", "Tail")},
			{"v", "Level " + levelLabel(m.logState.level)},
			{"j/k", "Scroll"},
			{"d", "Dashboard"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"f", ternary(m.track.follow, "Following", "Anchored")},
			{"+/-", fmt.Sprintf("Zoom %d", m.track.zoom)},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
