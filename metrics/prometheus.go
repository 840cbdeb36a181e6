package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultNamespace prefixes every gauge registered by the PrometheusTracker.
const DefaultNamespace = "boxbulk"

// NewPrometheusTracker returns a metrics tracker registering its gauges in a dedicated registry.
// Durations are reported in milliseconds.
func NewPrometheusTracker(namespace string, logger *zap.Logger) *PrometheusTracker {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	registry := prometheus.NewRegistry()
	return &PrometheusTracker{
		namespace: namespace,
		registry:  registry,
		factory:   promauto.With(registry),
		gauges:    make(map[string]prometheus.Gauge),
		started:   make(map[string]time.Time),
		logger:    logger,
		now:       time.Now,
	}
}

// PrometheusTracker implements boxbulk.MetricsTracker on top of prometheus gauges.
type PrometheusTracker struct {
	namespace string
	registry  *prometheus.Registry
	factory   promauto.Factory
	mu        sync.Mutex
	gauges    map[string]prometheus.Gauge
	started   map[string]time.Time
	logger    *zap.Logger
	now       func() time.Time
}

// Add registers the measurement gauge. Adding the same measurement twice keeps the first gauge.
func (t *PrometheusTracker) Add(measurement, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.gauges[measurement]; ok {
		return
	}
	t.gauges[measurement] = t.factory.NewGauge(prometheus.GaugeOpts{
		Namespace: t.namespace,
		Name:      measurement,
		Help:      description,
	})
}

// Start launches the measurement duration timer.
func (t *PrometheusTracker) Start(measurement string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started[measurement] = t.now()
}

// Stop sets the gauge to the time passed since the matching Start call.
func (t *PrometheusTracker) Stop(measurement string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	start, ok := t.started[measurement]
	if !ok {
		return
	}
	delete(t.started, measurement)
	if gauge := t.gauge(measurement); gauge != nil {
		gauge.Set(float64(t.now().Sub(start)) / float64(time.Millisecond))
	}
}

// Set sets the gauge to the numeric value passed as text.
func (t *PrometheusTracker) Set(measurement, value string) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		t.logger.Warn("invalid metric value", zap.String("measurement", measurement), zap.String("value", value))
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if gauge := t.gauge(measurement); gauge != nil {
		gauge.Set(v)
	}
}

// Gatherer exposes the tracker registry, e.g. for a push gateway or an HTTP handler.
func (t *PrometheusTracker) Gatherer() prometheus.Gatherer {
	return t.registry
}

// WriteToTextfile dumps the current metrics in the text exposition format, suitable for the node
// exporter textfile collector.
func (t *PrometheusTracker) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, t.registry)
}

// gauge returns the registered gauge. Measurements that weren't added are ignored.
func (t *PrometheusTracker) gauge(measurement string) prometheus.Gauge {
	gauge, ok := t.gauges[measurement]
	if !ok {
		t.logger.Debug("unknown measurement", zap.String("measurement", measurement))
		return nil
	}
	return gauge
}
