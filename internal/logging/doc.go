// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute-key constants used across mailsweep so that log
// output stays consistent and queryable, plus helpers for anonymizing sender
// headers before they reach log output. Sender header values are PII and must
// never be logged verbatim outside of audit streams.
package logging
