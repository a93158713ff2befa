package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RicardoTrinityBI/gmailsink/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the default address for the metrics listener.
	DefaultMetricsAddr = ":9090"

	// DefaultReadHeaderTimeout is the read-header timeout for the listener.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout is the write timeout for the listener.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the idle timeout for the listener.
	DefaultIdleTimeout = 60 * time.Second
)

// MetricsServer exposes Prometheus metrics on a dedicated port while a sync
// run is in flight. Long multi-mailbox runs can be scraped mid-run; short
// runs should prefer the OTLP push exporter instead.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
}

// NewMetricsServer creates a metrics server backed by the given provider's
// Prometheus exporter. The provider must be enabled and configured with the
// prometheus metrics exporter.
func NewMetricsServer(addr string, provider *instrumentation.Provider) (*MetricsServer, error) {
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	if provider == nil || !provider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}
	if !provider.HasPrometheusExporter() {
		return nil, fmt.Errorf("metrics server requires the prometheus metrics exporter")
	}

	return &MetricsServer{addr: addr}, nil
}

// Start starts the metrics server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *MetricsServer) Start() error {
	mux := http.NewServeMux()

	// The OpenTelemetry prometheus exporter registers metrics to the global
	// Prometheus registry, which promhttp.Handler() exposes.
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	slog.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the metrics server.
func (s *MetricsServer) Addr() string {
	return s.addr
}
