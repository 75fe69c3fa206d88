// Package app is the composition root for cockpit.
//
// # Overview
//
// Run wires configuration, logging, metrics, the telemetry session and the
// terminal UI together and blocks until the user quits. Dump does the same
// without a UI, printing the live state as a table for scripts and SSH
// sessions.
//
// # Startup
//
//  1. Load ~/.config/cockpit/config.toml and apply command-line overrides
//  2. Send logs to the configured log file (the UI owns the terminal)
//  3. Load UI preferences (theme, follow, zoom)
//  4. Start the metrics endpoint when metrics_addr is set
//  5. Start the stream session, the only writer of the state.Store
//  6. Run the TUI until quit or cancellation, then stop the session
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Resolve()           config file + overrides
//	       ├─────> log.Init()          file logger
//	       ├─────> metrics.Serve()     /metrics, /healthz
//	       ├─────> session.Run()       frames -> Apply, 1s -> Tick
//	       └─────> ui.Run()            Snapshot() on every tick (blocks)
//
// # Error Handling
//
// Configuration and endpoint errors are returned before anything starts.
// The stream ending, whether the peer closed it or the transport failed, is
// logged and shown in the link card; the dashboard keeps running so the last
// known values stay on screen. There is no reconnect.
package app
