package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrOperation = "operation"
	attrStatus    = "status"
)

// Metrics provides methods for recording sync pipeline metrics.
type Metrics struct {
	gmailOperationsTotal   metric.Int64Counter
	gmailOperationDuration metric.Float64Histogram

	messagesListedTotal metric.Int64Counter
	bodiesFetchedTotal  metric.Int64Counter
	rowsInsertedTotal   metric.Int64Counter

	userSyncDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

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

	m.messagesListedTotal, err = meter.Int64Counter(
		"messages_listed_total",
		metric.WithDescription("Total number of Gmail messages listed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_listed_total counter: %w", err)
	}

	m.bodiesFetchedTotal, err = meter.Int64Counter(
		"bodies_fetched_total",
		metric.WithDescription("Total number of message bodies fetched"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bodies_fetched_total counter: %w", err)
	}

	m.rowsInsertedTotal, err = meter.Int64Counter(
		"warehouse_rows_inserted_total",
		metric.WithDescription("Total number of rows inserted into the warehouse"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse_rows_inserted_total counter: %w", err)
	}

	m.userSyncDuration, err = meter.Float64Histogram(
		"user_sync_duration_seconds",
		metric.WithDescription("Per-mailbox sync duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user_sync_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordGmailOperation records a Gmail API operation with its result.
//
// Parameters:
//   - operation: Operation type ("list", "get")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
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

// AddMessagesListed records how many message ids a listing returned.
func (m *Metrics) AddMessagesListed(ctx context.Context, n int64) {
	if m.messagesListedTotal == nil {
		return // Instrumentation not initialized
	}
	m.messagesListedTotal.Add(ctx, n)
}

// RecordBodyFetch records one body fetch attempt with its result.
func (m *Metrics) RecordBodyFetch(ctx context.Context, status string) {
	if m.bodiesFetchedTotal == nil {
		return // Instrumentation not initialized
	}
	m.bodiesFetchedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// AddRowsInserted records how many rows a warehouse load wrote.
func (m *Metrics) AddRowsInserted(ctx context.Context, n int64) {
	if m.rowsInsertedTotal == nil {
		return // Instrumentation not initialized
	}
	m.rowsInsertedTotal.Add(ctx, n)
}

// RecordUserSync records the duration and result of one mailbox's sync.
func (m *Metrics) RecordUserSync(ctx context.Context, status string, duration time.Duration) {
	if m.userSyncDuration == nil {
		return // Instrumentation not initialized
	}
	m.userSyncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}
