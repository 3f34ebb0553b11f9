package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values for ConversionsTotal and FilesWritten.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics contains the conversion pipeline metrics
type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	RepairsTotal       prometheus.Counter
	ParseErrorsTotal   *prometheus.CounterVec
	NormalizedFields   *prometheus.CounterVec
	FilesWritten       *prometheus.CounterVec
}

// NewMetrics creates the conversion metrics, unregistered
func NewMetrics() *Metrics {
	return &Metrics{
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jobmap",
				Name:      "conversions_total",
				Help:      "Total number of conversions by detected format and outcome",
			},
			[]string{"format", "status"},
		),

		ConversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jobmap",
				Name:      "conversion_duration_seconds",
				Help:      "Conversion duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}, // Sub-millisecond to 500ms
			},
			[]string{"format"},
		),

		RepairsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "jobmap",
				Name:      "repairs_total",
				Help:      "Total number of JSON payloads that decoded only after repair",
			},
		),

		ParseErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jobmap",
				Name:      "parse_errors_total",
				Help:      "Total number of parse failures by kind",
			},
			[]string{"kind"}, // kind: empty_input, malformed_structure, empty_key, other
		),

		NormalizedFields: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jobmap",
				Name:      "normalized_fields_total",
				Help:      "Total number of field values rewritten by normalization",
			},
			[]string{"rule"}, // rule: prefix, escape
		),

		FilesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jobmap",
				Name:      "files_written_total",
				Help:      "Total number of output files written",
			},
			[]string{"status"},
		),
	}
}

func (c *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.ConversionsTotal,
		c.ConversionDuration,
		c.RepairsTotal,
		c.ParseErrorsTotal,
		c.NormalizedFields,
		c.FilesWritten,
	}
}

// All Record methods are no-ops on a nil receiver so callers can run without
// a registry.

// RecordConversion counts a finished conversion and observes its duration
func (c *Metrics) RecordConversion(format, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.ConversionsTotal.WithLabelValues(format, status).Inc()
	c.ConversionDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordRepair increments the repaired payload counter
func (c *Metrics) RecordRepair() {
	if c == nil {
		return
	}
	c.RepairsTotal.Inc()
}

// RecordParseError increments the parse error counter
func (c *Metrics) RecordParseError(kind string) {
	if c == nil {
		return
	}
	c.ParseErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordNormalized adds n rewrites for rule
func (c *Metrics) RecordNormalized(rule string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.NormalizedFields.WithLabelValues(rule).Add(float64(n))
}

// RecordFileWritten counts an output file write
func (c *Metrics) RecordFileWritten(status string) {
	if c == nil {
		return
	}
	c.FilesWritten.WithLabelValues(status).Inc()
}
