package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/cloudrider/cockpit/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer setMaxProcs()()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cockpit: %v\n", err)
		return 1
	}
	return 0
}

// setMaxProcs matches GOMAXPROCS to the container quota without printing:
// the dashboard owns the terminal before any logger exists.
func setMaxProcs() func() {
	undo, err := maxprocs.Set()
	if err != nil {
		return func() {}
	}
	return undo
}

func newRootCommand() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "cockpit",
		Short: "Live terminal dashboard for one UAV telemetry stream",
		Long: "cockpit connects to a WebSocket telemetry source, folds GlobalPosition, " +
			"BatteryStatus and Heartbeat messages into a live view and renders it in the terminal. " +
			"It never sends anything to the vehicle.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/cockpit/config.toml)")
	fs.StringVar(&opts.PrefsPath, "prefs", "", "UI preferences file (default ~/.config/cockpit/prefs.toml)")
	fs.StringVarP(&opts.Endpoint, "endpoint", "e", "", "telemetry WebSocket endpoint, overrides the config file")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&opts.LogPath, "log-path", "", "diagnostic log file")
	fs.StringVar(&opts.LogLevel, "log-level", "", "minimum log level (debug, info, warn, error)")

	cmd.AddCommand(newDumpCommand(), newSimulateCommand())
	return cmd
}
