// Package logging centralizes slog construction and the structured field
// vocabulary shared across the pipeline, runner, and API server.
package logging
