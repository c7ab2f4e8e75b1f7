// Package instrumentation provides OpenTelemetry metrics, tracing, and audit
// logging for mailsweep.
//
// The Provider wires exporters from environment-driven configuration:
// Prometheus (default), OTLP, or stdout for metrics; OTLP, stdout, or none
// for traces. The Metrics recorder exposes typed methods for the domain's
// concerns (Gmail API calls, sampling volume, sweep batches and outcomes,
// purge deletions, OAuth, MCP tools); its zero value is a usable no-op, so
// callers never branch on whether telemetry is configured.
//
// Destructive operations additionally leave a MutationRecord through the
// AuditLogger. Audit logs anonymize sender addresses unless PII inclusion is
// explicitly enabled, and metrics only ever carry sender domains.
package instrumentation
