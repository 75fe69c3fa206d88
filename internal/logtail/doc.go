// Package logtail reads the tail of the cockpit log file for the logs view.
//
// Read uses a ring buffer so only the last N lines are held in memory no
// matter how large the file is. Parse splits the console encoder's
// tab-separated layout (time, level, caller, message, JSON fields) so the
// UI can colour by level, and Filter hides entries below a minimum level.
package logtail
