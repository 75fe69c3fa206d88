package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/cloudrider/cockpit/internal/telemetry"
)

// LinkStatus describes the lifecycle of the telemetry connection.
type LinkStatus string

const (
	LinkIdle       LinkStatus = "idle"
	LinkConnecting LinkStatus = "connecting"
	LinkStreaming  LinkStatus = "streaming"
	LinkClosed     LinkStatus = "closed"
	LinkFailed     LinkStatus = "failed"
)

// Stats accumulates stream counters for the session.
type Stats struct {
	MessageCount   uint64
	TotalBytes     uint64
	ElapsedSeconds uint64
}

// LiveState is a point-in-time view of everything the dashboard knows. Nil
// payloads have not been received yet.
type LiveState struct {
	Position  *telemetry.GlobalPosition
	Battery   *telemetry.BatteryStatus
	Heartbeat *telemetry.Heartbeat
	Stats     Stats

	Link        LinkStatus
	LastError   error
	LastMessage time.Time
}

// HasAny reports whether at least one message has been applied.
func (s LiveState) HasAny() bool {
	return s.Position != nil || s.Battery != nil || s.Heartbeat != nil
}

// Store holds the live state. The session loop is its only writer; any number
// of readers may take snapshots concurrently.
type Store struct {
	mu    sync.RWMutex
	state LiveState
	now   func() time.Time
}

// Apply folds one decoded message into the state. Counters advance before the
// payload for msg.Kind is replaced wholesale; other payloads are untouched.
func (s *Store) Apply(msg telemetry.Message, byteLength int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Stats.MessageCount++
	if byteLength > 0 {
		s.state.Stats.TotalBytes += uint64(byteLength)
	}
	s.state.LastMessage = s.clock()

	switch msg.Kind {
	case telemetry.KindPosition:
		if msg.Position != nil {
			p := *msg.Position
			s.state.Position = &p
		}
	case telemetry.KindBattery:
		if msg.Battery != nil {
			b := msg.Battery.Clone()
			s.state.Battery = &b
		}
	case telemetry.KindHeartbeat:
		if msg.Heartbeat != nil {
			h := *msg.Heartbeat
			s.state.Heartbeat = &h
		}
	}
}

// Tick advances the elapsed-seconds counter by one.
func (s *Store) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Stats.ElapsedSeconds++
}

// SetLink records the connection lifecycle. A nil err clears the last error.
func (s *Store) SetLink(status LinkStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Link = status
	s.state.LastError = err
}

// Snapshot returns a copy of the current state that shares no memory with the
// store.
func (s *Store) Snapshot() LiveState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	if s.state.Position != nil {
		p := *s.state.Position
		snap.Position = &p
	}
	if s.state.Battery != nil {
		b := s.state.Battery.Clone()
		snap.Battery = &b
	}
	if s.state.Heartbeat != nil {
		h := *s.state.Heartbeat
		snap.Heartbeat = &h
	}
	if s.state.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.state.LastError)
	}
	if snap.Link == "" {
		snap.Link = LinkIdle
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
