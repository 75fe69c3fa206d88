package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/cloudrider/cockpit/internal/telemetry"
)

func TestParseSchema(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", telemetry.SchemaAuto},
		{"auto", telemetry.SchemaAuto},
		{"Legacy", telemetry.SchemaLegacy},
		{"v1", telemetry.SchemaLegacy},
		{"v2", telemetry.SchemaV2},
		{"2", telemetry.SchemaV2},
	}
	for _, tt := range tests {
		got, err := parseSchema(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseSchema(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	if _, err := parseSchema("v3"); !errors.Is(err, telemetry.ErrUnsupportedVersion) {
		t.Fatalf("v3 err = %v", err)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"dump", "simulate"} {
		sub, _, err := root.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Fatalf("subcommand %q not found: %v", name, err)
		}
	}
	for _, flag := range []string{"config", "endpoint", "metrics-addr", "log-path", "log-level", "prefs"} {
		if root.Flags().Lookup(flag) == nil {
			t.Errorf("root flag %q missing", flag)
		}
	}
	sim, _, _ := root.Find([]string{"simulate"})
	for _, flag := range []string{"addr", "plan", "schema", "malformed-every", "log.level"} {
		if sim.Flags().Lookup(flag) == nil {
			t.Errorf("simulate flag %q missing", flag)
		}
	}
}

func TestSetMaxProcsRestores(t *testing.T) {
	before := runtime.GOMAXPROCS(0)
	undo := setMaxProcs()
	if runtime.GOMAXPROCS(0) < 1 {
		t.Fatalf("GOMAXPROCS not set")
	}
	undo()
	if got := runtime.GOMAXPROCS(0); got != before {
		t.Fatalf("GOMAXPROCS after undo = %d, want %d", got, before)
	}
}

func TestSimulateLogsListeningOnce(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sim.log")
	cmd := newSimulateCommand()
	cmd.SetArgs([]string{"--addr", "127.0.0.1:0", "--log.output-paths", logPath})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "simulator listening"); got != 1 {
		t.Fatalf("listening logged %d times:\n%s", got, data)
	}
}
