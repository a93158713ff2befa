// Package instrumentation provides OpenTelemetry metrics and tracing for the
// sync pipeline.
//
// The Provider wires up a meter provider (prometheus, otlp, or stdout
// exporters) and an optional tracer provider, configured through standard
// OTEL_* environment variables. Metrics cover Gmail API operations, listed
// messages, fetched bodies, warehouse rows, and per-mailbox sync durations.
//
// For a short-lived batch run the OTLP metrics exporter is usually the right
// choice; the Prometheus exporter only makes sense together with the metrics
// listener for runs long enough to be scraped.
package instrumentation
