package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cockpit.log")
	opts := NewOptions()
	opts.OutputPaths = []string{path}
	opts.Format = "json"

	l, err := NewLogger(opts)
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	l.WithName("stream").Warn("frame dropped", "reason", "unknown message type", "bytes", 17)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"level":"WARN"`, `"logger":"stream"`, `"message":"frame dropped"`, `"bytes":17`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cockpit.log")
	opts := NewOptions()
	opts.OutputPaths = []string{path}
	opts.Level = "warn"

	l, err := NewLogger(opts)
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("level filter failed: %q", data)
	}
}

func TestToFields_OddKeys(t *testing.T) {
	fields := toFields("a", 1, "dangling")
	if len(fields) != 2 {
		t.Fatalf("toFields returned %d fields, want 2", len(fields))
	}
	if fields[1].Key != "!BADKEY" {
		t.Fatalf("trailing key = %q, want !BADKEY", fields[1].Key)
	}
}

func TestOptions_ValidateAndFlags(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)
	if err := fs.Parse([]string{"--log.level=debug", "--log.format=xml"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.Level != "debug" {
		t.Fatalf("Level = %q, want debug", opts.Level)
	}
	if errs := opts.Validate(); len(errs) != 1 {
		t.Fatalf("Validate returned %v, want one error", errs)
	}
}

func TestPackageHelpersDefaultToNop(t *testing.T) {
	Info("no logger installed")
	if Std() == nil {
		t.Fatalf("Std() returned nil")
	}
}
