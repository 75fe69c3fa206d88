package ui

import (
	"testing"

	"github.com/cloudrider/cockpit/internal/state"
)

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	current := names[0]
	for i := 0; i < len(names); i++ {
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Fatalf("cycling through %d themes ended at %q", len(names), current)
	}
	if got := NextTheme("nope"); got != names[0] {
		t.Fatalf("unknown theme should restart the cycle, got %q", got)
	}
}

func TestGetThemeFallback(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("fallback theme = %q", got)
	}
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestThemesColorEveryLinkStatus(t *testing.T) {
	statuses := []string{
		string(state.LinkIdle),
		string(state.LinkConnecting),
		string(state.LinkStreaming),
		string(state.LinkClosed),
		string(state.LinkFailed),
		"stale",
	}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, s := range statuses {
			if theme.LinkColors[s] == "" {
				t.Errorf("%s: no color for %q", name, s)
			}
		}
	}
}
