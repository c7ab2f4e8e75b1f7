package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// MutationRecord captures one destructive mailbox operation for audit
// logging: a bulk sweep (trash, archive) or a permanent purge. Every
// operation that changes or destroys mail leaves one of these behind.
//
// The Sender field contains PII. General log streams get SenderDomain();
// full addresses only appear when the audit logger is configured for it.
type MutationRecord struct {
	// Operation is "sweep" or "purge".
	Operation string

	// Mutation is the concrete change: trash, archive, delete.
	Mutation string

	// Account is the configured account name, not an address.
	Account string

	// Sender is the target sender address for per-sender sweeps; empty for
	// category sweeps and purges.
	Sender string

	// Target is the non-PII target descriptor (a category name, "trash").
	Target string

	// Outcome counts.
	Processed int
	Failed    int
	Total     int
	Aborted   bool

	// Execution details.
	StartTime time.Time
	Duration  time.Duration
	Error     string

	// Tracing context.
	TraceID string
	SpanID  string
}

// NewMutationRecord creates a record with timing started. Call Complete when
// the operation finishes.
func NewMutationRecord(operation, mutation string) *MutationRecord {
	return &MutationRecord{
		Operation: operation,
		Mutation:  mutation,
		StartTime: time.Now(),
	}
}

// WithAccount sets the account name.
func (r *MutationRecord) WithAccount(account string) *MutationRecord {
	r.Account = account
	return r
}

// WithSender sets the target sender address.
func (r *MutationRecord) WithSender(sender string) *MutationRecord {
	r.Sender = sender
	return r
}

// WithTarget sets the non-PII target descriptor.
func (r *MutationRecord) WithTarget(target string) *MutationRecord {
	r.Target = target
	return r
}

// WithSpanContext extracts trace context from the current span.
func (r *MutationRecord) WithSpanContext(ctx context.Context) *MutationRecord {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.TraceID = span.SpanContext().TraceID().String()
		r.SpanID = span.SpanContext().SpanID().String()
	}
	return r
}

// Complete records the outcome and duration.
func (r *MutationRecord) Complete(processed, failed, total int, aborted bool) *MutationRecord {
	r.Duration = time.Since(r.StartTime)
	r.Processed = processed
	r.Failed = failed
	r.Total = total
	r.Aborted = aborted
	return r
}

// CompleteWithError records a failed operation.
func (r *MutationRecord) CompleteWithError(err error) *MutationRecord {
	r.Duration = time.Since(r.StartTime)
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// SenderDomain returns the domain portion of the target sender for
// lower-cardinality logging.
func (r *MutationRecord) SenderDomain() string {
	return ExtractUserDomain(r.Sender)
}

// Status returns the label value for the record's outcome.
func (r *MutationRecord) Status() string {
	switch {
	case r.Error != "":
		return StatusError
	case r.Aborted:
		return StatusAborted
	default:
		return StatusSuccess
	}
}

// LogAttrs returns slog attributes with the sender reduced to its domain.
func (r *MutationRecord) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", r.Operation),
		slog.String("mutation", r.Mutation),
		slog.String("status", r.Status()),
		slog.Int("processed", r.Processed),
		slog.Int("total", r.Total),
		slog.Duration("duration", r.Duration),
	}

	if r.Sender != "" {
		attrs = append(attrs, slog.String("sender_domain", r.SenderDomain()))
	}
	if r.Target != "" {
		attrs = append(attrs, slog.String("target", r.Target))
	}
	if r.Account != "" && r.Account != "default" {
		attrs = append(attrs, slog.String("account", r.Account))
	}
	if r.Failed > 0 {
		attrs = append(attrs, slog.Int("failed", r.Failed))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes including the full sender address.
// Route logs carrying these to secured storage only.
func (r *MutationRecord) LogAuditAttrs() []slog.Attr {
	attrs := r.LogAttrs()
	if r.Sender != "" {
		attrs = append(attrs, slog.String("sender", r.Sender))
	}
	if r.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", r.SpanID))
	}
	return attrs
}

// AuditLogger provides structured audit logging for destructive mailbox
// operations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates an AuditLogger that anonymizes sender addresses.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates an AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether full sender addresses appear in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogMutation logs a completed destructive operation. PII appears only when
// the logger is configured for it.
func (al *AuditLogger) LogMutation(r *MutationRecord) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = r.LogAuditAttrs()
	} else {
		attrs = r.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	switch r.Status() {
	case StatusSuccess:
		al.logger.Info("mailbox_mutated", args...)
	default:
		al.logger.Warn("mailbox_mutation_failed", args...)
	}
}
