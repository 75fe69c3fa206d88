package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cloudrider/cockpit/internal/telemetry"
)

const labelWidth = 11

type cardRow struct {
	label string
	value string
	style *lipgloss.Style
}

// renderDashboard lays the four cards out as a 2x2 grid with the track panel
// to the right, or below when the terminal is narrow.
func (m Model) renderDashboard() string {
	cards := []string{
		m.renderCard("Position", m.positionRows()),
		m.renderCard("Battery", m.batteryRows()),
		m.renderCard("Link", m.linkRows()),
		m.renderCard("Stream", m.statsRows()),
	}
	grid := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3]),
	)

	contentHeight := maxInt(m.height-2, 0)
	gridWidth := lipgloss.Width(grid)
	gridHeight := lipgloss.Height(grid)

	if m.width >= LayoutCompactWidth && m.width-gridWidth >= MinTrackWidth {
		track := m.renderTrack(m.width-gridWidth, maxInt(contentHeight, gridHeight))
		return lipgloss.JoinHorizontal(lipgloss.Top, grid, track)
	}

	trackHeight := contentHeight - gridHeight
	if trackHeight < 5 {
		return grid
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid, m.renderTrack(m.width, trackHeight))
}

func (m Model) renderCard(title string, rows []cardRow) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(padRight(r.label, labelWidth)))
		valueStyle := styles.Text
		if r.value == placeholder {
			valueStyle = styles.FaintText
		} else if r.style != nil {
			valueStyle = *r.style
		}
		b.WriteString(valueStyle.Render(truncate(r.value, CardWidth-labelWidth-4)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1).
		Width(CardWidth - 2).
		Render(b.String())
}

func (m Model) positionRows() []cardRow {
	p := m.snapshot.Position
	rows := []cardRow{
		{label: "Latitude", value: formatCoord(p, true)},
		{label: "Longitude", value: formatCoord(p, false)},
	}
	if p == nil {
		return append(rows,
			cardRow{label: "Altitude", value: placeholder},
			cardRow{label: "Rel. alt", value: placeholder},
			cardRow{label: "Velocity", value: placeholder},
			cardRow{label: "Climb", value: placeholder},
			cardRow{label: "Ground spd", value: placeholder},
		)
	}
	return append(rows,
		cardRow{label: "Altitude", value: formatMeters(p.Alt)},
		cardRow{label: "Rel. alt", value: formatMeters(p.RelativeAlt)},
		cardRow{label: "Velocity", value: fmt.Sprintf("%.2f / %.2f", p.VX, p.VY)},
		cardRow{label: "Climb", value: formatSpeed(-p.VZ)},
		cardRow{label: "Ground spd", value: formatSpeed(p.GroundSpeed())},
	)
}

func (m Model) batteryRows() []cardRow {
	styles := m.theme.Styles()
	b := m.snapshot.Battery

	remaining := cardRow{label: "Remaining", value: formatPercent(b)}
	if b != nil {
		if pct, ok := b.Percent(); ok {
			style := styles.LevelStyle(pct)
			remaining.value = gauge(pct, 10) + " " + remaining.value
			remaining.style = &style
		}
	}

	return []cardRow{
		remaining,
		{label: "Voltage", value: formatPackVoltage(b)},
		{label: "Current", value: formatCurrent(b)},
		{label: "Temp", value: formatTemperature(b)},
		{label: "Consumed", value: formatConsumed(b)},
		{label: "Type", value: batteryType(b)},
	}
}

func (m Model) linkRows() []cardRow {
	styles := m.theme.Styles()
	now := m.now()
	link := m.linkLabel()
	linkStyle := styles.LinkStyle(link).UnsetPadding().UnsetBackground().
		Foreground(lipgloss.Color(m.theme.LinkColors[link]))

	age, ok := heartbeatAge(m.snapshot.Heartbeat, now)
	ageRow := cardRow{label: "HB age", value: formatAge(age, ok)}
	if ok && age > staleAfter {
		ageRow.style = &styles.WarningText
	}

	lastFrame := placeholder
	if !m.snapshot.LastMessage.IsZero() {
		lastFrame = formatAge(now.Sub(m.snapshot.LastMessage), true)
	}

	rows := []cardRow{
		{label: "Status", value: titleCase(link), style: &linkStyle},
		{label: "Endpoint", value: truncateMiddle(m.endpoint, CardWidth-labelWidth-4)},
		{label: "Heartbeat", value: formatHeartbeat(m.snapshot.Heartbeat, nil)},
		ageRow,
		{label: "Last frame", value: lastFrame},
	}
	if err := m.snapshot.LastError; err != nil {
		rows = append(rows, cardRow{label: "Error", value: err.Error(), style: &styles.DangerText})
	}
	return rows
}

func (m Model) statsRows() []cardRow {
	st := m.snapshot.Stats
	rate := placeholder
	if st.ElapsedSeconds > 0 {
		rate = fmt.Sprintf("%.1f msg/s", float64(st.MessageCount)/float64(st.ElapsedSeconds))
	}
	return []cardRow{
		{label: "Messages", value: humanize.Comma(int64(st.MessageCount))},
		{label: "Received", value: formatBytes(st.TotalBytes)},
		{label: "Uptime", value: formatUptime(st.ElapsedSeconds)},
		{label: "Rate", value: rate},
	}
}

// renderTrack draws the track grid inside a box of the given outer size.
func (m Model) renderTrack(width, height int) string {
	innerW := maxInt(width-4, 1)
	innerH := maxInt(height-3, 1)
	styles := m.theme.Styles()

	lines := m.track.render(innerW, innerH)
	for i, line := range lines {
		lines[i] = m.colorTrackLine(line, styles)
	}

	title := fmt.Sprintf("Track  %s  %s", ternary(m.track.follow, "follow", "anchored"), m.track.scaleLabel(innerW))
	if last, ok := m.track.latest(); ok && !m.track.follow {
		if _, _, inside := m.track.project(last, innerW, innerH); !inside {
			title += "  vehicle off-screen"
		}
	}
	return m.renderBox(title, strings.Join(lines, "\n"), width, height, false)
}

func (m Model) colorTrackLine(line string, styles Styles) string {
	var b strings.Builder
	for _, r := range line {
		switch r {
		case markerVehicle:
			b.WriteString(styles.WarningText.Bold(true).Render(string(r)))
		case markerOrigin:
			b.WriteString(styles.InfoText.Render(string(r)))
		case markerTrail:
			b.WriteString(styles.AccentText.Render(string(r)))
		case markerCenter:
			b.WriteString(styles.FaintText.Render(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderBox draws a titled, bordered panel of exactly width x height cells.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	styles := m.theme.Styles()
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	body := styles.AccentText.Bold(true).Render(title) + "\n" + content
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(maxInt(width-2, 0)).
		Height(maxInt(height-2, 0)).
		MaxHeight(height).
		Render(body)
}

// gauge draws a fixed-width bar for a 0-100 value.
func gauge(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := (percent*width + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// batteryType names the common MAV_BATTERY_TYPE values.
func batteryType(b *telemetry.BatteryStatus) string {
	if b == nil {
		return placeholder
	}
	switch b.Type {
	case 1:
		return "LiPo"
	case 2:
		return "LiFe"
	case 3:
		return "LiIon"
	case 4:
		return "NiMH"
	default:
		return "Unknown"
	}
}
