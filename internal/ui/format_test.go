package ui

import (
	"testing"
	"time"

	"github.com/cloudrider/cockpit/internal/telemetry"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds uint64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
		{360000, "100:00:00"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.seconds); got != tt.want {
			t.Errorf("formatUptime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0 B"},
		{42, "42 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestBatteryFormatting(t *testing.T) {
	b := &telemetry.BatteryStatus{
		RemainingPercent: 76,
		Temperature:      2510,
		Current:          150,
		CurrentConsumed:  820,
		Voltages:         []int{4200, 4200, 4200, 65535, 65535},
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"percent", formatPercent(b), "76%"},
		{"temperature", formatTemperature(b), "25.1 °C"},
		{"current", formatCurrent(b), "1500 mA"},
		{"voltage", formatPackVoltage(b), "12.60 V (3S)"},
		{"consumed", formatConsumed(b), "820 mAh"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	unknown := &telemetry.BatteryStatus{RemainingPercent: -1, Voltages: []int{65535}}
	tests := []struct {
		name string
		got  string
	}{
		{"nil lat", formatCoord(nil, true)},
		{"nil lon", formatCoord(nil, false)},
		{"nil percent", formatPercent(nil)},
		{"unknown percent", formatPercent(unknown)},
		{"nil temperature", formatTemperature(nil)},
		{"nil current", formatCurrent(nil)},
		{"no cells", formatPackVoltage(unknown)},
		{"nil heartbeat", formatHeartbeat(nil, time.UTC)},
		{"empty heartbeat", formatHeartbeat(&telemetry.Heartbeat{}, time.UTC)},
		{"unknown age", formatAge(0, false)},
		{"nil battery type", batteryType(nil)},
	}
	for _, tt := range tests {
		if tt.got != placeholder {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, placeholder)
		}
	}
}

func TestFormatCoord(t *testing.T) {
	p := &telemetry.GlobalPosition{Lat: 47.39774212, Lon: -8.5}
	if got := formatCoord(p, true); got != "47.397742" {
		t.Fatalf("lat = %q", got)
	}
	if got := formatCoord(p, false); got != "-8.500000" {
		t.Fatalf("lon = %q", got)
	}
	if got := formatMeters(488.256); got != "488.26 m" {
		t.Fatalf("meters = %q", got)
	}
}

func TestFormatHeartbeat(t *testing.T) {
	hb := &telemetry.Heartbeat{Timestamp: "2025-06-01T12:34:56Z"}
	if got := formatHeartbeat(hb, time.UTC); got != "12:34:56" {
		t.Fatalf("formatHeartbeat = %q", got)
	}
	berlin := time.FixedZone("CEST", 2*3600)
	if got := formatHeartbeat(hb, berlin); got != "14:34:56" {
		t.Fatalf("formatHeartbeat in CEST = %q", got)
	}
	raw := &telemetry.Heartbeat{Timestamp: "not-a-time"}
	if got := formatHeartbeat(raw, time.UTC); got != "not-a-time" {
		t.Fatalf("unparseable timestamp should show verbatim, got %q", got)
	}
}

func TestHeartbeatAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)
	hb := &telemetry.Heartbeat{Timestamp: "2025-06-01T12:00:07Z"}

	age, ok := heartbeatAge(hb, now)
	if !ok || age != 3*time.Second {
		t.Fatalf("heartbeatAge = %v, %v", age, ok)
	}
	if got := formatAge(age, ok); got != "3s ago" {
		t.Fatalf("formatAge = %q", got)
	}
	if got := formatAge(3*time.Minute, true); got != "3 minutes ago" {
		t.Fatalf("formatAge(3m) = %q", got)
	}

	future := &telemetry.Heartbeat{Timestamp: "2025-06-01T12:01:00Z"}
	if age, _ := heartbeatAge(future, now); age != 0 {
		t.Fatalf("future heartbeat age = %v, want 0", age)
	}
}

func TestGauge(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{50, "█████░░░░░"},
		{100, "██████████"},
		{140, "██████████"},
		{-5, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := gauge(tt.percent, 10); got != tt.want {
			t.Errorf("gauge(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}
