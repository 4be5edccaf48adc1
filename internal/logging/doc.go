// Package logging builds the slog loggers used throughout curator.
//
// Two output formats are supported: "console", a compact single-line
// format for interactive use, and "json" for machine consumption. Attr
// helper constructors keep call sites terse and consistent, and
// NewComponentLogger tags every record with the emitting component.
package logging
