// Package telemetry defines the vehicle messages the dashboard consumes and
// the codec that turns WebSocket frames into them.
//
// # Wire Format
//
// Every frame is a JSON envelope with a type tag and a payload:
//
//	{"type": "GlobalPosition", "data": {"lat": 48.1, "lon": 11.5, ...}}
//	{"type": "Heartbeat",      "data": {"timestamp": "2025-05-01T10:00:00Z"}}
//	{"type": "BatteryStatus",  "data": {"remaining_percent": 87, ...}, "v": 2}
//
// The optional "v" field selects the schema version. Producers in the field
// disagree on battery field names, so two versions are accepted:
//
//	v1 (legacy):    battery_remaining, temperature,   current_battery
//	v2 (canonical): remaining_percent, temperature_c, current_battery_ma
//
// Frames without "v" are classified by field names: any v2 name selects v2,
// otherwise v1 is assumed. Decode is the only place that knows about either
// spelling; BatteryStatus always carries canonical units.
//
// # Units
//
//   - Position: degrees, metres, metres per second
//   - Battery temperature: centidegrees Celsius
//   - Battery current: centiamperes (CurrentMA converts to mA)
//   - Cell voltages: millivolts, 65535 marks an unused cell
//
// # Errors
//
// Decode returns errors wrapping one of ErrMalformedFrame, ErrUnknownKind or
// ErrUnsupportedVersion. Callers drop such frames and keep reading.
package telemetry
