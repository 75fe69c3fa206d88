package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cloudrider/cockpit/internal/log"
	"github.com/cloudrider/cockpit/internal/metrics"
	"github.com/cloudrider/cockpit/internal/state"
)

// ErrStreamClosed wraps every transport error that ends a session.
var ErrStreamClosed = errors.New("telemetry stream closed")

const defaultTickEvery = time.Second

// Options configures a Session.
type Options struct {
	Endpoint         string
	HandshakeTimeout time.Duration
	// TickEvery is the stats timer period. Zero means one second.
	TickEvery time.Duration

	Store   *state.Store
	Metrics *metrics.Metrics
	Logger  log.Logger
	// Dial overrides the websocket dialer, mainly for tests.
	Dial DialFunc
}

// Session owns one connection and is the single writer of its Store.
type Session struct {
	endpoint  string
	tickEvery time.Duration
	store     *state.Store
	metrics   *metrics.Metrics
	logger    log.Logger
	dial      DialFunc
	lifecycle *lifecycle
}

// NewSession builds a session. Nothing is dialled until Run.
func NewSession(opts Options) *Session {
	s := &Session{
		endpoint:  opts.Endpoint,
		tickEvery: opts.TickEvery,
		store:     opts.Store,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		dial:      opts.Dial,
	}
	if s.endpoint == "" {
		s.endpoint = DefaultEndpoint
	}
	if s.tickEvery <= 0 {
		s.tickEvery = defaultTickEvery
	}
	if s.store == nil {
		s.store = &state.Store{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = log.NewNopLogger()
	}
	if s.dial == nil {
		s.dial = NewDialer(opts.HandshakeTimeout)
	}
	s.lifecycle = newLifecycle(s.store, s.metrics)
	return s
}

// Store returns the store the session writes to.
func (s *Session) Store() *state.Store {
	return s.store
}

// Status returns the current link status.
func (s *Session) Status() state.LinkStatus {
	return s.lifecycle.Status()
}

// Run connects and ingests until ctx is cancelled or the transport fails.
// It returns nil on cancellation. Any other end of the stream is reported as
// an error wrapping ErrStreamClosed. No store mutation happens after Run
// returns. A Session runs at most once.
func (s *Session) Run(ctx context.Context) error {
	if err := s.lifecycle.fire(context.Background(), EventDial); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	s.logger.Info("connecting", "endpoint", s.endpoint)

	ingestor := NewIngestor(s.store, s.logger, s.metrics)
	frames := make(chan []byte)

	g, gctx := errgroup.WithContext(ctx)

	// Writer loop: the only goroutine that mutates the store. The timer runs
	// from session start regardless of traffic.
	g.Go(func() error {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.store.Tick()
			case frame, ok := <-frames:
				if !ok {
					return nil
				}
				ingestor.Handle(frame)
			}
		}
	})

	g.Go(func() error {
		defer close(frames)
		return s.read(ctx, gctx, frames)
	})

	err := g.Wait()
	switch {
	case err == nil:
		_ = s.lifecycle.fire(context.Background(), EventClose)
		s.logger.Info("session stopped", "endpoint", s.endpoint)
		return nil
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		_ = s.lifecycle.fire(context.Background(), EventClose, err)
		s.logger.Info("stream closed by peer", "endpoint", s.endpoint, "error", err.Error())
	default:
		_ = s.lifecycle.fire(context.Background(), EventFail, err)
		s.logger.Error(err, "stream failed", "endpoint", s.endpoint)
	}
	return fmt.Errorf("%w: %w", ErrStreamClosed, err)
}

// read dials and pushes frames in transport order. It returns nil when the
// parent context ends and the transport error otherwise.
func (s *Session) read(parent, gctx context.Context, frames chan<- []byte) error {
	conn, err := s.dial(gctx, s.endpoint)
	if err != nil {
		if parent.Err() != nil {
			return nil
		}
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(gctx, func() { _ = conn.Close() })
	defer stop()

	if err := s.lifecycle.fire(context.Background(), EventOpen); err != nil {
		return err
	}
	s.logger.Info("streaming", "endpoint", s.endpoint)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if parent.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case frames <- frame:
		case <-gctx.Done():
			return nil
		}
	}
}
