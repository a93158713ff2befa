package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider
}

func TestMetrics_RecordGmailOperation(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordGmailOperation(ctx, "list", StatusSuccess, 200*time.Millisecond)
	metrics.RecordGmailOperation(ctx, "get", StatusError, 500*time.Millisecond)
}

func TestMetrics_Counters(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	// Should not panic
	metrics.AddMessagesListed(ctx, 100)
	metrics.RecordBodyFetch(ctx, StatusSuccess)
	metrics.RecordBodyFetch(ctx, StatusError)
	metrics.AddRowsInserted(ctx, 100)
	metrics.RecordUserSync(ctx, StatusSuccess, 3*time.Second)
}

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()
	m := &Metrics{}

	// Recording on an uninitialized Metrics must not panic
	m.RecordGmailOperation(ctx, "list", StatusSuccess, time.Second)
	m.AddMessagesListed(ctx, 1)
	m.RecordBodyFetch(ctx, StatusSuccess)
	m.AddRowsInserted(ctx, 1)
	m.RecordUserSync(ctx, StatusSuccess, time.Second)
}

func TestProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider should still return a no-op metrics recorder")
	}
	if provider.HasPrometheusExporter() {
		t.Error("disabled provider should not have a prometheus exporter")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	// Tracer must be usable even when disabled
	_, span := provider.Tracer("test").Start(ctx, "op")
	span.End()
}

func TestProvider_PrometheusExporter(t *testing.T) {
	provider := newTestProvider(t)

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if !provider.HasPrometheusExporter() {
		t.Error("expected prometheus exporter to be active")
	}
}
