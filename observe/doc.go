// Package observe provides the logging, metrics and tracing used by the
// cache engine.
//
// It performs no caching itself. An Observer wires OpenTelemetry providers
// and exporters; Instruments bundles the Logger, Metrics and Tracer that a
// cache.Cached reports to.
package observe
