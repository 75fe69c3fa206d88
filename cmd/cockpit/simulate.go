package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudrider/cockpit/internal/log"
	"github.com/cloudrider/cockpit/internal/simulator"
	"github.com/cloudrider/cockpit/internal/telemetry"
)

func newSimulateCommand() *cobra.Command {
	var (
		opts     simulator.Options
		planPath string
		schema   string
		logOpts  = log.NewOptions()
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Serve synthetic telemetry for a flight along a plan",
		Long: "simulate runs a WebSocket server that streams GlobalPosition, BatteryStatus and " +
			"Heartbeat messages for a vehicle flying a YAML flight plan (or a default circle).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := logOpts.Validate(); len(errs) > 0 {
				return errs[0]
			}
			if err := log.Init(logOpts); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer func() { _ = log.Sync() }()

			version, err := parseSchema(schema)
			if err != nil {
				return err
			}
			opts.Schema = version

			if planPath != "" {
				plan, err := simulator.LoadPlan(planPath)
				if err != nil {
					return err
				}
				opts.Plan = plan
			}
			opts.Logger = log.WithName("simulator")

			srv, err := simulator.New(opts)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.Addr, "addr", "127.0.0.1:3000", "listen address")
	fs.StringVar(&opts.Path, "path", "/ws", "WebSocket path")
	fs.StringVar(&planPath, "plan", "", "YAML flight plan (default: a circle around a fixed home)")
	fs.StringVar(&schema, "schema", "auto", "battery schema: auto, legacy or v2")
	fs.IntVar(&opts.MalformedEvery, "malformed-every", 0, "replace every Nth frame with a bad one (0 disables)")
	fs.DurationVar(&opts.PositionEvery, "position-every", 200*time.Millisecond, "GlobalPosition period")
	fs.DurationVar(&opts.BatteryEvery, "battery-every", time.Second, "BatteryStatus period")
	fs.DurationVar(&opts.HeartbeatEvery, "heartbeat-every", time.Second, "Heartbeat period")
	logOpts.AddFlags(fs)
	return cmd
}

func parseSchema(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return telemetry.SchemaAuto, nil
	case "legacy", "v1", "1":
		return telemetry.SchemaLegacy, nil
	case "v2", "2":
		return telemetry.SchemaV2, nil
	}
	return 0, fmt.Errorf("%w: schema %q", telemetry.ErrUnsupportedVersion, name)
}
