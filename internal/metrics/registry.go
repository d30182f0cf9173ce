package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics tracks schema registry operation metrics
type RegistryMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationFailures *prometheus.CounterVec
}

// NewRegistryMetrics initializes registry metrics with the collector
func NewRegistryMetrics(collector *Collector) *RegistryMetrics {
	return &RegistryMetrics{
		operationsTotal: collector.RegisterCounter(
			MetricRegistryOperationsTotal,
			"Total number of schema registry operations",
			[]string{LabelOperation},
		),
		operationDuration: collector.RegisterHistogram(
			MetricRegistryOperationDuration,
			"Duration of schema registry operations in seconds",
			[]string{LabelOperation},
			prometheus.DefBuckets,
		),
		operationFailures: collector.RegisterCounter(
			MetricRegistryOperationFailures,
			"Total number of failed schema registry operations",
			[]string{LabelOperation},
		),
	}
}

// ObserveOperation counts one operation and returns a func recording
// its duration when called
func (m *RegistryMetrics) ObserveOperation(operation string) func() {
	m.operationsTotal.WithLabelValues(operation).Inc()
	start := time.Now()
	return func() {
		m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// OperationFailed counts one failed operation
func (m *RegistryMetrics) OperationFailed(operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}
