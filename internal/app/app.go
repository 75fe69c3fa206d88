package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cloudrider/cockpit/internal/config"
	"github.com/cloudrider/cockpit/internal/log"
	"github.com/cloudrider/cockpit/internal/metrics"
	"github.com/cloudrider/cockpit/internal/prefs"
	"github.com/cloudrider/cockpit/internal/stream"
	"github.com/cloudrider/cockpit/internal/ui"
)

// Options configure the dashboard. Non-empty fields override config.toml.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/cockpit/prefs.toml
	Endpoint    string
	MetricsAddr string
	LogPath     string
	LogLevel    string
}

// Resolve loads the config file and applies the overrides in opts. The
// endpoint comes back normalised.
func Resolve(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogPath != "" {
		path, err := config.ExpandPath(opts.LogPath)
		if err != nil {
			return cfg, fmt.Errorf("log path: %w", err)
		}
		cfg.LogPath = path
	}

	u, err := stream.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return cfg, fmt.Errorf("endpoint: %w", err)
	}
	cfg.Endpoint = u.String()
	return cfg, nil
}

// fileLogOptions sends logs to the configured file; the terminal belongs to
// the UI.
func fileLogOptions(cfg config.Config) *log.Options {
	opts := log.NewOptions()
	opts.Level = cfg.LogLevel
	opts.DisableCaller = true
	opts.OutputPaths = []string{cfg.LogPath}
	return opts
}

// Run boots the dashboard until the user quits or ctx is cancelled. A failed
// stream does not end the run; the link card shows the failure.
func Run(ctx context.Context, opts Options) error {
	cfg, err := Resolve(opts)
	if err != nil {
		return err
	}

	if err := log.Init(fileLogOptions(cfg)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	session := stream.NewSession(stream.Options{
		Endpoint:         cfg.Endpoint,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Metrics:          m,
		Logger:           log.WithName("stream"),
	})
	store := session.Store()

	var g errgroup.Group
	g.Go(func() error {
		if err := metrics.Serve(ctx, cfg.MetricsAddr, m); err != nil {
			log.Error(err, "metrics endpoint stopped", "addr", cfg.MetricsAddr)
		}
		return nil
	})
	g.Go(func() error {
		if err := session.Run(ctx); err != nil {
			log.Error(err, "session ended", "endpoint", cfg.Endpoint)
		}
		return nil
	})

	uiErr := ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Endpoint:  cfg.Endpoint,
		LogPath:   cfg.LogPath,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})

	cancel()
	_ = g.Wait()
	log.Info("dashboard stopped", "messages", store.Snapshot().Stats.MessageCount)
	return uiErr
}
