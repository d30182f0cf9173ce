package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics tracks HTTP API metrics
type APIMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewAPIMetrics initializes API metrics with the collector
func NewAPIMetrics(collector *Collector) *APIMetrics {
	return &APIMetrics{
		requestsTotal: collector.RegisterCounter(
			MetricAPIRequestsTotal,
			"Total number of API requests",
			[]string{LabelMethod, LabelEndpoint, LabelStatus},
		),
		requestDuration: collector.RegisterHistogram(
			MetricAPIRequestDuration,
			"Duration of API requests in seconds",
			[]string{LabelMethod, LabelEndpoint},
			prometheus.DefBuckets,
		),
	}
}

// ObserveRequest records one completed API request
func (m *APIMetrics) ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
