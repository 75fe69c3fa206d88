// Package simulator serves synthetic UAV telemetry over a WebSocket so the
// dashboard can be exercised without a vehicle or a MAVLink bridge.
//
// A Generator flies a Plan (a closed loop of waypoints, loaded from YAML or
// the built-in circle) and derives position, battery and heartbeat samples
// from the time since takeoff. The Server broadcasts them at independent
// rates, can emit the legacy battery schema, and can inject undecodable
// frames to exercise the dashboard's drop path.
package simulator
