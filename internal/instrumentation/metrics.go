package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod      = "method"
	attrPath        = "path"
	attrStatus      = "status"
	attrIntegration = "integration"
	attrMode        = "mode"
	attrOperation   = "operation"
	attrService     = "service"
)

// Status values for the status attribute.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics.
// All recording methods are safe to call on a nil receiver.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	tokenExchangesTotal metric.Int64Counter

	taskExecutionsTotal metric.Int64Counter
	taskDuration        metric.Float64Histogram

	googleAPIOperationsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

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
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.tokenExchangesTotal, err = meter.Int64Counter(
		"token_exchanges_total",
		metric.WithDescription("Total number of Descope outbound token exchanges"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_exchanges_total counter: %w", err)
	}

	m.taskExecutionsTotal, err = meter.Int64Counter(
		"task_executions_total",
		metric.WithDescription("Total number of agent task executions"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task_executions_total counter: %w", err)
	}

	m.taskDuration, err = meter.Float64Histogram(
		"task_duration_seconds",
		metric.WithDescription("Agent task execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with its status code and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)

	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordTokenExchange records an outbound token exchange for an integration.
func (m *Metrics) RecordTokenExchange(ctx context.Context, integration, status string) {
	if m == nil || m.tokenExchangesTotal == nil {
		return
	}

	m.tokenExchangesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrIntegration, integration),
		attribute.String(attrStatus, status),
	))
}

// RecordTaskExecution records one agent task execution.
func (m *Metrics) RecordTaskExecution(ctx context.Context, integration, mode, status string, duration time.Duration) {
	if m == nil || m.taskExecutionsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrIntegration, integration),
		attribute.String(attrMode, mode),
		attribute.String(attrStatus, status),
	)

	m.taskExecutionsTotal.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records a call against a Google API.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string) {
	if m == nil || m.googleAPIOperationsTotal == nil {
		return
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	))
}
