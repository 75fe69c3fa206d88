package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudrider/cockpit/internal/prefs"
	"github.com/cloudrider/cockpit/internal/state"
	"github.com/cloudrider/cockpit/internal/telemetry"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, store *state.Store) Model {
	t.Helper()
	m := New(Options{
		Store:     store,
		Endpoint:  "ws://127.0.0.1:3000/ws",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModel_ViewBeforeAnyMessage(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	m = apply(t, m, snapshotMsg(m.store.Snapshot()))

	view := m.View()
	for _, want := range []string{"Position", "Battery", "Link", "Stream", "Latitude", "IDLE", "awaiting telemetry"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := m.positionRows(); len(got) != 7 || got[0].value != placeholder || got[6].value != placeholder {
		t.Fatalf("position rows without data = %+v", got)
	}
	for _, r := range m.batteryRows() {
		if r.value != placeholder {
			t.Fatalf("battery row %q = %q, want placeholder", r.label, r.value)
		}
	}
}

func TestModel_RendersSnapshot(t *testing.T) {
	store := &state.Store{}
	store.SetLink(state.LinkStreaming, nil)
	store.Apply(telemetry.PositionMessage(telemetry.GlobalPosition{
		Lat: 47.397742, Lon: 8.545594, Alt: 488.25, RelativeAlt: 40,
	}), 120)
	store.Apply(telemetry.BatteryMessage(telemetry.BatteryStatus{
		RemainingPercent: -1, Temperature: 2510, Current: 1400,
		Voltages: []int{4100, 4100, 4100, 4100, 65535},
	}), 200)

	m := newTestModel(t, store)
	m = apply(t, m, snapshotMsg(store.Snapshot()))

	view := m.View()
	for _, want := range []string{"47.397742", "8.545594", "488.25 m", "25.1 °C", "14000 mA", "16.40 V (4S)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "awaiting telemetry") {
		t.Errorf("header still waiting after data arrived")
	}
	if got := m.batteryRows()[0].value; got != placeholder {
		t.Fatalf("unknown remaining percent rendered as %q", got)
	}
	if len(m.track.points) != 1 {
		t.Fatalf("snapshot should feed the track, got %d points", len(m.track.points))
	}
}

func TestModel_StaleLink(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &state.Store{}
	store.SetLink(state.LinkStreaming, nil)
	store.Apply(telemetry.HeartbeatMessage(telemetry.Heartbeat{
		Timestamp: now.Add(-10 * time.Second).Format(time.RFC3339Nano),
	}), 50)

	m := newTestModel(t, store)
	m.now = func() time.Time { return now }
	m = apply(t, m, snapshotMsg(store.Snapshot()))

	if got := m.linkLabel(); got != "stale" {
		t.Fatalf("linkLabel = %q, want stale", got)
	}

	m.now = func() time.Time { return now.Add(-8 * time.Second) }
	if got := m.linkLabel(); got != "streaming" {
		t.Fatalf("linkLabel = %q, want streaming", got)
	}
}

func TestModel_FollowTogglePersists(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	if !m.track.follow {
		t.Fatalf("follow should default on")
	}

	m = apply(t, m, runeKey("f"))
	if m.track.follow {
		t.Fatalf("f should turn follow off")
	}
	m = apply(t, m, runeKey("+"))

	saved := prefs.Load(m.prefsPath)
	if saved.Follow {
		t.Fatalf("saved follow = true, want false")
	}
	if saved.Zoom != prefs.DefaultZoom+1 {
		t.Fatalf("saved zoom = %d, want %d", saved.Zoom, prefs.DefaultZoom+1)
	}
}

func TestModel_ThemeCycle(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	start := m.theme.Name

	m = apply(t, m, runeKey("T"))
	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}

	saved := prefs.Load(m.prefsPath)
	if saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	_, cmd := m.Update(runeKey("e"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("e should quit")
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	m = apply(t, m, runeKey("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("? should open help")
	}
	m = apply(t, m, runeKey("f"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
	if !m.track.follow {
		t.Fatalf("the closing key must not reach the dashboard")
	}
}

func TestModel_LogsView(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "cockpit.log")
	content := strings.Join([]string{
		"2026-03-01T12:00:00.000Z\tINFO\tstream\tconnected\t{\"endpoint\": \"ws://x\"}",
		"2026-03-01T12:00:01.000Z\tWARN\tstream\tdropping frame\t{\"reason\": \"malformed\"}",
	}, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := New(Options{Store: &state.Store{}, LogPath: logPath, PrefsPath: filepath.Join(dir, "prefs.toml")})
	m = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	updated, cmd := m.Update(runeKey("l"))
	m = updated.(Model)
	if m.currentView != ViewLogs {
		t.Fatalf("l should switch to logs")
	}
	if cmd == nil {
		t.Fatalf("switching to logs should read the log file")
	}
	m = apply(t, m, cmd())

	if len(m.logState.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.logState.entries))
	}
	if view := m.View(); !strings.Contains(view, "dropping frame") {
		t.Fatalf("logs view missing entry:\n%s", view)
	}

	m = apply(t, m, runeKey("v"))
	m = apply(t, m, runeKey("v"))
	if m.logState.level != "WARN" {
		t.Fatalf("level = %q, want WARN", m.logState.level)
	}
	if strings.Contains(m.logViewport.View(), "connected") {
		t.Fatalf("INFO entry should be filtered out at WARN")
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewDashboard {
		t.Fatalf("esc should return to the dashboard")
	}
}

func TestModel_LogsWithoutFile(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	updated, cmd := m.Update(runeKey("l"))
	if cmd != nil {
		t.Fatalf("no log file means nothing to read")
	}
	if view := updated.(Model).View(); !strings.Contains(view, "no log file") {
		t.Fatalf("expected a hint about terminal logging")
	}
}
