// Package state holds the dashboard's live view of the vehicle.
//
// # Overview
//
// Store is the reducer that folds decoded telemetry into a LiveState. The
// session loop in package stream is the only writer; the UI and the headless
// dump read snapshots on their own schedule.
//
//	Writer (session loop):          Readers (UI, dump):
//	┌──────────────────────┐       ┌──────────────────────┐
//	│ frame → Decode()     │       │                      │
//	│ store.Apply(msg, n)  │──────→│ store.Snapshot()     │
//	│ 1s timer → Tick()    │(mutex)│ render cards         │
//	│ SetLink(status, err) │       │                      │
//	└──────────────────────┘       └──────────────────────┘
//
// # Update Semantics
//
//	store.Apply(msg, n)
//	→ Stats.MessageCount += 1
//	→ Stats.TotalBytes   += n
//	→ exactly one of Position / Battery / Heartbeat replaced by msg.Kind
//
//	store.Tick()
//	→ Stats.ElapsedSeconds += 1
//
// Payloads are replaced wholesale, never merged field by field. A field moves
// from absent (nil) to present once and stays present for the session.
//
// SetLink records connection lifecycle for display. It never touches the
// payloads or counters.
//
// # Copying
//
// Apply stores its own copy of the payload and Snapshot hands out fresh
// copies, including the battery voltages slice. Readers can keep or modify a
// snapshot without affecting the store or each other.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	var store state.Store
//	store.Apply(telemetry.PositionMessage(pos), 42)
//	snap := store.Snapshot()
package state
