package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolve_FileValues(t *testing.T) {
	path := writeConfig(t, `
endpoint = "10.0.0.5:3000"
metrics_addr = "127.0.0.1:9464"
log_level = "debug"
handshake_timeout = "2s"
`)

	cfg, err := Resolve(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Endpoint != "ws://10.0.0.5:3000/ws" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.HandshakeTimeout != 2*time.Second {
		t.Fatalf("handshake timeout = %v", cfg.HandshakeTimeout)
	}
}

func TestResolve_OverridesWin(t *testing.T) {
	path := writeConfig(t, `endpoint = "ws://drone.local:3000/ws"`)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Resolve(Options{
		ConfigPath: path,
		Endpoint:   "http://127.0.0.1:4000/telemetry",
		LogPath:    "~/logs/cockpit.log",
		LogLevel:   "warn",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Endpoint != "ws://127.0.0.1:4000/telemetry" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if want := filepath.Join(home, "logs", "cockpit.log"); cfg.LogPath != want {
		t.Fatalf("log path = %q, want %q", cfg.LogPath, want)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestResolve_Errors(t *testing.T) {
	if _, err := Resolve(Options{ConfigPath: writeConfig(t, `endpoint = [`)}); err == nil {
		t.Fatalf("expected parse error")
	}
	missing := filepath.Join(t.TempDir(), "absent.toml")
	if _, err := Resolve(Options{ConfigPath: missing, Endpoint: "ftp://host/ws"}); err == nil {
		t.Fatalf("expected endpoint scheme error")
	}
}

func TestFileLogOptions(t *testing.T) {
	path := writeConfig(t, `log_path = "/tmp/cockpit-test.log"`)
	cfg, err := Resolve(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	opts := fileLogOptions(cfg)
	if len(opts.OutputPaths) != 1 || opts.OutputPaths[0] != "/tmp/cockpit-test.log" {
		t.Fatalf("output paths = %v", opts.OutputPaths)
	}
	if opts.Level != "info" || opts.Format != "console" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
