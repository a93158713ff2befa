package server

import (
	"context"
	"testing"
	"time"

	"github.com/RicardoTrinityBI/gmailsink/internal/instrumentation"
)

func createTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider
}

func createDisabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()

	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}
	return provider
}

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		addr        string
		provider    *instrumentation.Provider
		expectError bool
		wantAddr    string
	}{
		{
			name:     "valid config",
			addr:     ":9099",
			provider: createTestProvider(t),
			wantAddr: ":9099",
		},
		{
			name:     "default addr",
			addr:     "",
			provider: createTestProvider(t),
			wantAddr: DefaultMetricsAddr,
		},
		{
			name:        "nil provider",
			addr:        ":9099",
			provider:    nil,
			expectError: true,
		},
		{
			name:        "disabled provider",
			addr:        ":9099",
			provider:    createDisabledProvider(t),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMetricsServer(tt.addr, tt.provider)
			if (err != nil) != tt.expectError {
				t.Fatalf("NewMetricsServer() error = %v, expectError %v", err, tt.expectError)
			}
			if err != nil {
				return
			}
			if s.Addr() != tt.wantAddr {
				t.Errorf("Addr() = %q, want %q", s.Addr(), tt.wantAddr)
			}
		})
	}
}

func TestMetricsServer_ShutdownBeforeStart(t *testing.T) {
	s, err := NewMetricsServer(":9099", createTestProvider(t))
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	// Shutdown without Start must be a no-op
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
