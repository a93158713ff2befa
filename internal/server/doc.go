// Package server provides the optional Prometheus metrics listener.
//
// Serving metrics on a dedicated port keeps operational data off any other
// surface; the listener only runs for the lifetime of a sync when enabled.
package server
