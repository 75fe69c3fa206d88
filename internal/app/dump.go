package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"golang.org/x/sync/errgroup"

	"github.com/cloudrider/cockpit/internal/log"
	"github.com/cloudrider/cockpit/internal/metrics"
	"github.com/cloudrider/cockpit/internal/state"
	"github.com/cloudrider/cockpit/internal/stream"
)

const (
	defaultDumpInterval = 2 * time.Second
	dumpPlaceholder     = "-"
)

// DumpOptions configure a headless run.
type DumpOptions struct {
	Endpoint         string
	HandshakeTimeout time.Duration
	MetricsAddr      string

	// Interval between printed snapshots. Zero means two seconds.
	Interval time.Duration
	// Duration bounds the run. Zero runs until ctx is cancelled or the
	// stream ends.
	Duration time.Duration

	Out    io.Writer
	Logger log.Logger
	Dial   stream.DialFunc
}

// Dump ingests without a UI and prints the live state as a table every
// interval, plus once more when the stream stops. It returns the session
// error, if any.
func Dump(ctx context.Context, opts DumpOptions) error {
	u, err := stream.ParseEndpoint(opts.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultDumpInterval
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if opts.Duration > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Duration)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	m := metrics.New()
	session := stream.NewSession(stream.Options{
		Endpoint:         u.String(),
		HandshakeTimeout: opts.HandshakeTimeout,
		Metrics:          m,
		Logger:           logger.WithName("stream"),
		Dial:             opts.Dial,
	})

	store := session.Store()

	var g errgroup.Group
	g.Go(func() error {
		if err := metrics.Serve(runCtx, opts.MetricsAddr, m); err != nil {
			logger.Error(err, "metrics endpoint stopped", "addr", opts.MetricsAddr)
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- session.Run(runCtx) }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			writeSnapshot(out, u.String(), store.Snapshot())
			cancel()
			_ = g.Wait()
			return err
		case <-ticker.C:
			writeSnapshot(out, u.String(), store.Snapshot())
		}
	}
}

func writeSnapshot(w io.Writer, endpoint string, snap state.LiveState) {
	table := uitable.New()
	table.MaxColWidth = 72
	table.Wrap = true

	table.AddRow("LINK:", string(snap.Link))
	table.AddRow("ENDPOINT:", endpoint)
	if snap.LastError != nil {
		table.AddRow("ERROR:", snap.LastError.Error())
	}

	position, altitude := dumpPlaceholder, dumpPlaceholder
	if p := snap.Position; p != nil {
		position = fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
		altitude = fmt.Sprintf("%.2f m (rel %.2f m)", p.Alt, p.RelativeAlt)
	}
	table.AddRow("POSITION:", position)
	table.AddRow("ALTITUDE:", altitude)

	battery := dumpPlaceholder
	if b := snap.Battery; b != nil {
		battery = fmt.Sprintf("%s, %s, %d mA", percentOrPlaceholder(b.Percent()), packVoltage(b.PackVoltage()), b.CurrentMA())
	}
	table.AddRow("BATTERY:", battery)

	heartbeat := dumpPlaceholder
	if h := snap.Heartbeat; h != nil && h.Timestamp != "" {
		heartbeat = h.Timestamp
	}
	table.AddRow("HEARTBEAT:", heartbeat)

	st := snap.Stats
	table.AddRow("MESSAGES:", humanize.Comma(int64(st.MessageCount)))
	table.AddRow("RECEIVED:", humanize.IBytes(st.TotalBytes))
	table.AddRow("ELAPSED:", (time.Duration(st.ElapsedSeconds) * time.Second).String())

	_, _ = fmt.Fprintln(w, table)
	_, _ = fmt.Fprintln(w)
}

func percentOrPlaceholder(pct int, ok bool) string {
	if !ok {
		return dumpPlaceholder
	}
	return fmt.Sprintf("%d%%", pct)
}

func packVoltage(mv int, ok bool) string {
	if !ok {
		return dumpPlaceholder
	}
	return fmt.Sprintf("%.2f V", float64(mv)/1000)
}
