package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cloudrider/cockpit/internal/telemetry"
)

// placeholder stands in for any value the vehicle has not reported yet.
const placeholder = "-"

// staleAfter is how old a heartbeat may get before the link is shown as stale.
const staleAfter = 5 * time.Second

func formatCoord(p *telemetry.GlobalPosition, lat bool) string {
	if p == nil {
		return placeholder
	}
	if lat {
		return fmt.Sprintf("%.6f", p.Lat)
	}
	return fmt.Sprintf("%.6f", p.Lon)
}

func formatMeters(v float64) string {
	return fmt.Sprintf("%.2f m", v)
}

func formatSpeed(v float64) string {
	return fmt.Sprintf("%.2f m/s", v)
}

func formatPercent(b *telemetry.BatteryStatus) string {
	if b == nil {
		return placeholder
	}
	pct, ok := b.Percent()
	if !ok {
		return placeholder
	}
	return fmt.Sprintf("%d%%", pct)
}

func formatTemperature(b *telemetry.BatteryStatus) string {
	if b == nil {
		return placeholder
	}
	return fmt.Sprintf("%.1f °C", b.TemperatureC())
}

func formatCurrent(b *telemetry.BatteryStatus) string {
	if b == nil {
		return placeholder
	}
	return fmt.Sprintf("%d mA", b.CurrentMA())
}

func formatPackVoltage(b *telemetry.BatteryStatus) string {
	if b == nil {
		return placeholder
	}
	mv, ok := b.PackVoltage()
	if !ok {
		return placeholder
	}
	return fmt.Sprintf("%.2f V (%dS)", float64(mv)/1000, b.Cells())
}

func formatConsumed(b *telemetry.BatteryStatus) string {
	if b == nil || b.CurrentConsumed < 0 {
		return placeholder
	}
	return fmt.Sprintf("%d mAh", b.CurrentConsumed)
}

// formatBytes renders a byte count in IEC units ("1.5 KiB").
func formatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// formatUptime renders whole seconds as HH:MM:SS. Hours keep growing past 99.
func formatUptime(seconds uint64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatHeartbeat shows the heartbeat as local wall-clock time. Unparseable
// timestamps are shown verbatim.
func formatHeartbeat(h *telemetry.Heartbeat, loc *time.Location) string {
	if h == nil {
		return placeholder
	}
	t := h.ParsedTime()
	if t.IsZero() {
		if h.Timestamp == "" {
			return placeholder
		}
		return truncate(h.Timestamp, 24)
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04:05")
}

// heartbeatAge returns how long ago the heartbeat was stamped and whether
// that is known.
func heartbeatAge(h *telemetry.Heartbeat, now time.Time) (time.Duration, bool) {
	if h == nil {
		return 0, false
	}
	t := h.ParsedTime()
	if t.IsZero() {
		return 0, false
	}
	age := now.Sub(t)
	if age < 0 {
		age = 0
	}
	return age, true
}

func formatAge(d time.Duration, ok bool) string {
	if !ok {
		return placeholder
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	var epoch time.Time
	return humanize.RelTime(epoch, epoch.Add(d), "ago", "from now")
}

func formatKilometers(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

func formatWholeMeters(m float64) string {
	return fmt.Sprintf("%.0f m", m)
}
