// Package app wires the report viewer served by cmd/dashboard.
//
// New resolves the reports directory, initializes OpenTelemetry, builds the
// report and health services and mounts them on the chi router from
// internal/transport/http. Run blocks until SIGINT or SIGTERM and then shuts
// the server down within Server.ShutdownTimeout.
//
// The viewer only reads what cmd/analyzer has written; it never creates the
// report or the history database.
package app
