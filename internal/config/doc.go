// Package config loads the cockpit configuration file.
//
// Load reads ~/.config/cockpit/config.toml unless a path is given. A missing
// file is not an error; every key falls back to its default.
//
//	endpoint = "ws://127.0.0.1:3000/ws"
//	log_path = "~/.local/state/cockpit/cockpit.log"
//	log_level = "info"
//	metrics_addr = "127.0.0.1:9108"   # empty disables the endpoint
//	handshake_timeout = "5s"
//
// Paths starting with ~ are expanded to the home directory. Command-line
// flags take precedence over file values; that merge happens in cmd/cockpit.
package config
