package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
	attrTool      = "tool"
	attrAccount   = "account"
	attrMode      = "mode"
	attrPeriod    = "period"
	attrFallback  = "fallback"
	attrMutation  = "mutation"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a no-op recorder; every method checks its instruments before
// touching them.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Gmail API metrics
	gmailOperationsTotal   metric.Int64Counter
	gmailOperationDuration metric.Float64Histogram

	// Sampling metrics
	sampleMessagesTotal metric.Int64Counter

	// Sweep (bulk mutation) metrics
	sweepBatchesTotal  metric.Int64Counter
	sweepBatchSize     metric.Int64Histogram
	sweepMessagesTotal metric.Int64Counter
	sweepJobsTotal     metric.Int64Counter

	// Purge metrics
	purgeDeletionsTotal metric.Int64Counter

	// OAuth metrics
	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.gmailOperationsTotal, err = meter.Int64Counter(
		"gmail_api_operations_total",
		metric.WithDescription("Total number of Gmail API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operations_total counter: %w", err)
	}

	m.gmailOperationDuration, err = meter.Float64Histogram(
		"gmail_api_operation_duration_seconds",
		metric.WithDescription("Gmail API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operation_duration_seconds histogram: %w", err)
	}

	m.sampleMessagesTotal, err = meter.Int64Counter(
		"sample_messages_total",
		metric.WithDescription("Total number of message refs collected by the sampler"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sample_messages_total counter: %w", err)
	}

	m.sweepBatchesTotal, err = meter.Int64Counter(
		"sweep_batches_total",
		metric.WithDescription("Total number of bulk mutation batches issued"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep_batches_total counter: %w", err)
	}

	m.sweepBatchSize, err = meter.Int64Histogram(
		"sweep_batch_size",
		metric.WithDescription("Size of issued mutation batches"),
		metric.WithUnit("{message}"),
		metric.WithExplicitBucketBoundaries(50, 100, 250, 500, 1000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep_batch_size histogram: %w", err)
	}

	m.sweepMessagesTotal, err = meter.Int64Counter(
		"sweep_messages_total",
		metric.WithDescription("Total number of messages mutated by sweep jobs"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep_messages_total counter: %w", err)
	}

	m.sweepJobsTotal, err = meter.Int64Counter(
		"sweep_jobs_total",
		metric.WithDescription("Total number of sweep jobs by outcome"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep_jobs_total counter: %w", err)
	}

	m.purgeDeletionsTotal, err = meter.Int64Counter(
		"purge_deletions_total",
		metric.WithDescription("Total number of permanent deletion attempts"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create purge_deletions_total counter: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of OAuth authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGmailOperation records a Gmail API call with operation type, status,
// and duration. Operation is one of the Operation* constants; status is
// StatusSuccess or StatusError.
func (m *Metrics) RecordGmailOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.gmailOperationsTotal == nil || m.gmailOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.gmailOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.gmailOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSample records message refs collected for one sampling period.
// fallback marks refs collected by the broadened second-pass query.
func (m *Metrics) RecordSample(ctx context.Context, mode, period string, count int, fallback bool) {
	if m.sampleMessagesTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMode, mode),
		attribute.String(attrPeriod, period),
		attribute.Bool(attrFallback, fallback),
	}

	m.sampleMessagesTotal.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordSweepBatch records one bulk mutation call: its mutation kind, batch
// size, and whether the call faulted.
func (m *Metrics) RecordSweepBatch(ctx context.Context, mutation string, size int, err error) {
	if m.sweepBatchesTotal == nil || m.sweepBatchSize == nil {
		return // Instrumentation not initialized
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrMutation, mutation),
		attribute.String(attrStatus, status),
	}

	m.sweepBatchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.sweepBatchSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String(attrMutation, mutation)))
}

// RecordSweepResult records the terminal outcome of a sweep job: how many
// messages were mutated and whether the job aborted.
func (m *Metrics) RecordSweepResult(ctx context.Context, mutation string, processed int, aborted bool) {
	if m.sweepMessagesTotal == nil || m.sweepJobsTotal == nil {
		return // Instrumentation not initialized
	}

	status := StatusSuccess
	if aborted {
		status = StatusAborted
	}

	m.sweepMessagesTotal.Add(ctx, int64(processed),
		metric.WithAttributes(attribute.String(attrMutation, mutation)))
	m.sweepJobsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrMutation, mutation),
		attribute.String(attrStatus, status),
	))
}

// RecordPurgeDeletion records one permanent deletion attempt.
func (m *Metrics) RecordPurgeDeletion(ctx context.Context, err error) {
	if m.purgeDeletionsTotal == nil {
		return // Instrumentation not initialized
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	m.purgeDeletionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordOAuthAuth records an OAuth authentication attempt with result.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return // Instrumentation not initialized
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordOAuthTokenRefresh records an OAuth token refresh attempt with result.
// Result should be one of: "success", "failure", "expired"
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m.oauthTokenRefreshTotal == nil {
		return // Instrumentation not initialized
	}

	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithAccount records an MCP tool invocation including the
// account label when detailed labels are enabled.
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
