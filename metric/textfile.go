package metric

import (
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/jobmap/errors"
)

// WriteTextfile writes every registered metric to path in the Prometheus text
// exposition format, for pickup by node_exporter's textfile collector. The
// file is replaced atomically.
func (r *MetricsRegistry) WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "MetricsRegistry", "WriteTextfile",
			"metrics file path required")
	}
	if filepath.Ext(path) != ".prom" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "MetricsRegistry", "WriteTextfile",
			"metrics file must have .prom extension")
	}

	if err := prometheus.WriteToTextfile(path, r.prometheusRegistry); err != nil {
		return errors.WrapTransient(err, "MetricsRegistry", "WriteTextfile", "write metrics file")
	}
	return nil
}
