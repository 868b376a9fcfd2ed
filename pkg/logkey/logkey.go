// Package logkey holds the shared slog attribute keys so log output stays
// consistent across handlers and services.
package logkey

const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
)
