package stream

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	"github.com/cloudrider/cockpit/internal/metrics"
	"github.com/cloudrider/cockpit/internal/state"
)

const (
	// EventDial starts the connection attempt.
	EventDial = "dial"
	// EventOpen marks the handshake as complete.
	EventOpen = "open"
	// EventClose ends the session on request or a clean close from the peer.
	EventClose = "close"
	// EventFail ends the session on a transport error.
	EventFail = "fail"
)

// lifecycle tracks the connection state and mirrors it into the store.
//
//	idle ──dial──▶ connecting ──open──▶ streaming
//	                   │                    │
//	                   ├──fail──▶ failed ◀──┤
//	                   └──close─▶ closed ◀──┘
type lifecycle struct {
	*fsm.FSM
	store   *state.Store
	metrics *metrics.Metrics
}

func newLifecycle(store *state.Store, m *metrics.Metrics) *lifecycle {
	l := &lifecycle{store: store, metrics: m}

	idle := string(state.LinkIdle)
	connecting := string(state.LinkConnecting)
	streaming := string(state.LinkStreaming)
	closed := string(state.LinkClosed)
	failed := string(state.LinkFailed)

	events := fsm.Events{
		{Name: EventDial, Src: []string{idle}, Dst: connecting},
		{Name: EventOpen, Src: []string{connecting}, Dst: streaming},
		{Name: EventClose, Src: []string{connecting, streaming}, Dst: closed},
		{Name: EventFail, Src: []string{connecting, streaming}, Dst: failed},
	}

	callbacks := fsm.Callbacks{
		"enter_state": l.enterState,
	}

	l.FSM = fsm.NewFSM(idle, events, callbacks)
	return l
}

// enterState publishes the new link status. The first event argument, when
// it is an error, becomes the store's LastError.
func (l *lifecycle) enterState(_ context.Context, e *fsm.Event) {
	var cause error
	if len(e.Args) > 0 {
		if err, ok := e.Args[0].(error); ok {
			cause = err
		}
	}
	status := state.LinkStatus(e.Dst)
	if l.store != nil {
		l.store.SetLink(status, cause)
	}
	if l.metrics != nil {
		if status == state.LinkStreaming {
			l.metrics.LinkUp.Set(1)
		} else {
			l.metrics.LinkUp.Set(0)
		}
	}
}

// fire triggers event, ignoring the no-op error fsm returns when the state
// does not change.
func (l *lifecycle) fire(ctx context.Context, event string, args ...any) error {
	err := l.Event(ctx, event, args...)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}

// Status returns the current link status.
func (l *lifecycle) Status() state.LinkStatus {
	return state.LinkStatus(l.Current())
}
