package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the dashboard settings read from config.toml.
type Config struct {
	Endpoint         string
	LogPath          string
	LogLevel         string
	MetricsAddr      string
	HandshakeTimeout time.Duration
}

const (
	defaultConfigPath       = "~/.config/cockpit/config.toml"
	defaultEndpoint         = "ws://127.0.0.1:3000/ws"
	defaultLogPath          = "~/.local/state/cockpit/cockpit.log"
	defaultLogLevel         = "info"
	defaultHandshakeTimeout = 5 * time.Second
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Endpoint:         defaultEndpoint,
		LogPath:          mustExpand(defaultLogPath),
		LogLevel:         defaultLogLevel,
		HandshakeTimeout: defaultHandshakeTimeout,
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load locates and parses the cockpit config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint         string `toml:"endpoint"`
		LogPath          string `toml:"log_path"`
		LogLevel         string `toml:"log_level"`
		MetricsAddr      string `toml:"metrics_addr"`
		HandshakeTimeout string `toml:"handshake_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	if v := strings.TrimSpace(raw.HandshakeTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: handshake_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: handshake_timeout must be positive, got %s", d)
		}
		cfg.HandshakeTimeout = d
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
