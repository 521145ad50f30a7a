// Package daemon coordinates the long-running reeldocs process.
//
// It wires configuration, the SQLite store, object storage, the AI client,
// the job runner, and the HTTP API into a single lifecycle with flock-based
// locking to prevent multiple instances.
//
// Keep orchestration logic here: pipeline stages live in internal/pipeline
// while the daemon focuses on startup, shutdown, and wiring.
package daemon
