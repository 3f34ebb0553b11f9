package metric

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jobmap/errors"
)

func gatheredNames(t *testing.T, registry *MetricsRegistry) map[string]bool {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())

	names := gatheredNames(t, registry)
	assert.True(t, names["jobmap_repairs_total"])
	assert.False(t, names["go_goroutines"], "runtime collectors are opt-in")
}

func TestNewMetricsRegistry_RuntimeCollectors(t *testing.T) {
	registry := NewMetricsRegistry(WithRuntimeCollectors())
	assert.True(t, gatheredNames(t, registry)["go_goroutines"])
}

func TestMetricsRegistry_Register(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "A test counter"})
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "A test gauge"})
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counter_vec", Help: "A test vec"}, []string{"l"})
	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "test_histogram_vec", Help: "A test histogram", Buckets: prometheus.DefBuckets,
	}, []string{"l"})

	require.NoError(t, registry.RegisterCounter("test", "test_counter", counter))
	require.NoError(t, registry.RegisterGauge("test", "test_gauge", gauge))
	require.NoError(t, registry.RegisterCounterVec("test", "test_counter_vec", counterVec))
	require.NoError(t, registry.RegisterHistogramVec("test", "test_histogram_vec", histogramVec))

	counter.Inc()
	gauge.Set(42)
	counterVec.WithLabelValues("x").Inc()
	histogramVec.WithLabelValues("x").Observe(0.2)

	names := gatheredNames(t, registry)
	for _, name := range []string{"test_counter", "test_gauge", "test_counter_vec", "test_histogram_vec"} {
		assert.True(t, names[name], "%s should be registered", name)
	}
}

func TestMetricsRegistry_PreventDuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	counter1 := prometheus.NewCounter(prometheus.CounterOpts{Name: "duplicate_counter", Help: "First counter"})
	counter2 := prometheus.NewCounter(prometheus.CounterOpts{Name: "duplicate_counter", Help: "First counter"})

	require.NoError(t, registry.RegisterCounter("owner1", "duplicate_counter", counter1))

	err := registry.RegisterCounter("owner1", "duplicate_counter", counter2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate metric registration")
	assert.True(t, errors.IsInvalid(err))

	err = registry.RegisterCounter("owner2", "duplicate_counter", counter2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prometheus conflict")
}

func TestMetricsRegistry_Unregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "unregister_counter", Help: "A counter to unregister"})
	require.NoError(t, registry.RegisterCounter("test", "unregister_counter", counter))
	assert.True(t, gatheredNames(t, registry)["unregister_counter"])

	assert.True(t, registry.Unregister("test", "unregister_counter"))
	assert.False(t, gatheredNames(t, registry)["unregister_counter"])
	assert.False(t, registry.Unregister("test", "unregister_counter"))
}

func TestMetricsRegistry_ThreadSafety(t *testing.T) {
	registry := NewMetricsRegistry()

	var wg sync.WaitGroup
	numGoroutines := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			name := fmt.Sprintf("concurrent_counter_%d", id)
			counter := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: "A concurrent counter"})
			assert.NoError(t, registry.RegisterCounter("concurrent", name, counter))
		}(i)
	}
	wg.Wait()

	count := 0
	for name := range gatheredNames(t, registry) {
		if strings.HasPrefix(name, "concurrent_counter_") {
			count++
		}
	}
	assert.Equal(t, numGoroutines, count)
}

func TestMetricsRegistrar_Interface(t *testing.T) {
	var registrar MetricsRegistrar = NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "interface_counter", Help: "Counter registered through interface"})
	require.NoError(t, registrar.RegisterCounter("iface", "interface_counter", counter))
}

func TestCoreMetrics_RecordMethods(t *testing.T) {
	registry := NewMetricsRegistry()
	m := registry.CoreMetrics()

	m.RecordConversion("javamap", StatusSuccess, 2*time.Millisecond)
	m.RecordConversion("javamap", StatusSuccess, time.Millisecond)
	m.RecordConversion("json", StatusError, time.Millisecond)
	m.RecordRepair()
	m.RecordParseError("malformed_structure")
	m.RecordNormalized("prefix", 3)
	m.RecordNormalized("escape", 0)
	m.RecordFileWritten(StatusSuccess)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.ConversionsTotal.WithLabelValues("javamap", StatusSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ConversionsTotal.WithLabelValues("json", StatusError)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RepairsTotal))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ParseErrorsTotal.WithLabelValues("malformed_structure")))
	assert.Equal(t, 3.0, promtest.ToFloat64(m.NormalizedFields.WithLabelValues("prefix")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.FilesWritten.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1, promtest.CollectAndCount(m.NormalizedFields), "zero rewrites must not create a series")
	assert.Equal(t, 2, promtest.CollectAndCount(m.ConversionDuration))
}

func TestCoreMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordConversion("json", StatusSuccess, time.Millisecond)
		m.RecordRepair()
		m.RecordParseError("other")
		m.RecordNormalized("prefix", 1)
		m.RecordFileWritten(StatusError)
	})

	var registry *MetricsRegistry
	assert.Nil(t, registry.CoreMetrics())
}

func TestMetricsRegistry_WriteTextfile(t *testing.T) {
	registry := NewMetricsRegistry()
	registry.CoreMetrics().RecordConversion("javamap", StatusSuccess, time.Millisecond)

	path := filepath.Join(t.TempDir(), "jobmap.prom")
	require.NoError(t, registry.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `jobmap_conversions_total{format="javamap",status="success"} 1`)
	assert.Contains(t, string(data), "# TYPE jobmap_conversion_duration_seconds histogram")

	t.Run("rejects bad paths", func(t *testing.T) {
		err := registry.WriteTextfile("")
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)

		err = registry.WriteTextfile(filepath.Join(t.TempDir(), "metrics.txt"))
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})

	t.Run("missing directory is transient", func(t *testing.T) {
		err := registry.WriteTextfile(filepath.Join(t.TempDir(), "missing", "jobmap.prom"))
		require.Error(t, err)
		assert.True(t, errors.IsTransient(err))
	})
}
