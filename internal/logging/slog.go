package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyAccount    = "account"
	KeyMode       = "mode"
	KeyPeriod     = "period"
	KeyMutation   = "mutation"
	KeyBatchSize  = "batch_size"
	KeyProcessed  = "processed"
	KeyTotal      = "total"
	KeySenderHash = "sender_hash"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from the instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusAborted = "aborted"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithAccount returns a logger with the account attribute set.
func WithAccount(logger *slog.Logger, account string) *slog.Logger {
	return logger.With(slog.String(KeyAccount, account))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Mode returns a slog attribute for the sampling mode.
func Mode(mode string) slog.Attr {
	return slog.String(KeyMode, mode)
}

// Period returns a slog attribute for the sampling period name.
func Period(period string) slog.Attr {
	return slog.String(KeyPeriod, period)
}

// Mutation returns a slog attribute for the label mutation name.
func Mutation(name string) slog.Attr {
	return slog.String(KeyMutation, name)
}

// BatchSize returns a slog attribute for the current batch size.
func BatchSize(n int) slog.Attr {
	return slog.Int(KeyBatchSize, n)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from
// output. This allows safely passing Err(maybeNilErr) without adding empty
// attributes.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeSender returns a hashed representation of a sender header for
// logging purposes. Sender headers are PII; the hash still allows correlation
// of log entries across a run.
func AnonymizeSender(sender string) string {
	if sender == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(sender))
	return "sender:" + hex.EncodeToString(hash[:8])
}

// SenderHash returns a slog attribute with the anonymized sender header.
func SenderHash(sender string) slog.Attr {
	return slog.String(KeySenderHash, AnonymizeSender(sender))
}

// ExtractDomain extracts the domain part from an email address.
// This is useful for lower-cardinality logging where the full address would
// create too many unique values.
func ExtractDomain(email string) string {
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// Domain returns a slog attribute for the email domain (lower cardinality
// than the full address).
func Domain(email string) slog.Attr {
	return slog.String("sender_domain", ExtractDomain(email))
}
