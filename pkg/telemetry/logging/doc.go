// Package logging provides structured logging for Ganymede on top of
// log/slog.
//
// New builds a logger from configuration (level, format, source locations)
// and installs it as the process-wide slog default so that components which
// take no logger still emit structured output. Request-scoped fields travel
// through context; see WithRequestID.
package logging
