// Package ui implements the cockpit terminal dashboard with Bubble Tea.
//
// The Model never writes telemetry state. On every tick it takes a
// state.Store snapshot and renders it:
//
//   - Position, Battery, Link and Stream cards, with "-" for anything the
//     vehicle has not reported yet
//   - a track panel that projects recent fixes onto a character grid, with
//     follow (f) and zoom (+/-) persisted in prefs
//   - a logs view (l) that tails the log file with a level filter
//
// Themes cycle with T; h or ? opens the key reference.
package ui
