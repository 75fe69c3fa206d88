package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudrider/cockpit/internal/app"
	"github.com/cloudrider/cockpit/internal/config"
	"github.com/cloudrider/cockpit/internal/log"
)

func newDumpCommand() *cobra.Command {
	var (
		configPath string
		opts       app.DumpOptions
		logOpts    = log.NewOptions()
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Ingest without a UI and print the live state periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := logOpts.Validate(); len(errs) > 0 {
				return errs[0]
			}
			logger, err := log.NewLogger(logOpts)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.Endpoint == "" {
				opts.Endpoint = cfg.Endpoint
			}
			if opts.MetricsAddr == "" {
				opts.MetricsAddr = cfg.MetricsAddr
			}
			opts.HandshakeTimeout = cfg.HandshakeTimeout
			opts.Out = cmd.OutOrStdout()
			opts.Logger = logger

			return app.Dump(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&configPath, "config", "", "config file (default ~/.config/cockpit/config.toml)")
	fs.StringVarP(&opts.Endpoint, "endpoint", "e", "", "telemetry WebSocket endpoint, overrides the config file")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.DurationVar(&opts.Interval, "interval", 2*time.Second, "time between printed snapshots")
	fs.DurationVar(&opts.Duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	logOpts.AddFlags(fs)
	return cmd
}
