// Package stream connects to a telemetry source over a WebSocket and feeds
// decoded messages into a state.Store.
//
// A Session owns exactly one connection. Its reader goroutine hands frames to
// a writer loop that also runs the one-second stats timer, so the store has a
// single writer and frames are applied in the order they arrived. Frames
// that fail to decode are logged and dropped. A transport error ends the
// session; there is no reconnect.
package stream
