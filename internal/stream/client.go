package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultEndpoint is where the telemetry bridge listens out of the box.
	DefaultEndpoint = "ws://127.0.0.1:3000/ws"

	defaultUserAgent        = "cockpit/0.1"
	defaultHandshakeTimeout = 5 * time.Second
	maxFrameBytes           = 1 << 20
)

// Conn is the part of *websocket.Conn the session depends on.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// DialFunc opens one connection to endpoint.
type DialFunc func(ctx context.Context, endpoint string) (Conn, error)

// NewDialer returns a DialFunc backed by gorilla/websocket.
func NewDialer(handshakeTimeout time.Duration) DialFunc {
	if handshakeTimeout <= 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}
	d := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	return func(ctx context.Context, endpoint string) (Conn, error) {
		u, err := ParseEndpoint(endpoint)
		if err != nil {
			return nil, err
		}
		header := http.Header{}
		header.Set("User-Agent", defaultUserAgent)

		conn, resp, err := d.DialContext(ctx, u.String(), header)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("dial %s: handshake returned status %d: %w", u, resp.StatusCode, err)
			}
			return nil, fmt.Errorf("dial %s: %w", u, err)
		}
		conn.SetReadLimit(maxFrameBytes)
		return conn, nil
	}
}

// ParseEndpoint normalises a telemetry endpoint. Bare host:port values get
// ws:// and the default path; http(s) schemes map to ws(s).
func ParseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "ws://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("parse endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	if u.Path == "" {
		u.Path = "/ws"
	}
	u.Fragment = ""
	return u, nil
}
