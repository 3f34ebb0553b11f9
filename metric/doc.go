// Package metric provides Prometheus-based metrics for the conversion pipeline.
//
// A MetricsRegistry owns a private prometheus.Registry with the conversion
// metrics (Metrics) registered up front. Components that own their own
// collectors, such as worker pools, add them through the MetricsRegistrar
// methods; registrations are keyed by owner and metric name so a duplicate is
// reported instead of panicking.
//
// # Conversion Metrics
//
//	jobmap_conversions_total{format,status}
//	jobmap_conversion_duration_seconds{format}
//	jobmap_repairs_total
//	jobmap_parse_errors_total{kind}
//	jobmap_normalized_fields_total{rule}
//	jobmap_files_written_total{status}
//
// # Export
//
// The CLI is short-lived, so metrics are not served over HTTP. WriteTextfile
// dumps the registry in the text exposition format for node_exporter's
// textfile collector:
//
//	registry := metric.NewMetricsRegistry()
//	conv := convert.New(convert.WithMetrics(registry.CoreMetrics()))
//	...
//	if err := registry.WriteTextfile("/var/lib/node_exporter/jobmap.prom"); err != nil {
//	    slog.Warn("metrics export failed", "error", err)
//	}
//
// All Record methods accept a nil *Metrics, so metrics stay optional.
package metric
