package batchmdw

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels besides violation keys.
const (
	resultOK               = "ok"
	resultTooLarge         = "too_large"
	resultReadError        = "read_error"
	resultMethodNotAllowed = "method_not_allowed"
	resultCanceled         = "canceled"
)

// Metrics holds Prometheus metrics of the middleware.
type Metrics struct {
	// Batches counts served batch requests by their result, which is either "ok" or
	// the violation key, e.g. INVALID_BOUNDARY.
	Batches  *prometheus.CounterVec
	Groups   prometheus.Histogram
	Duration prometheus.Histogram
}

// NewMetrics creates and registers the metrics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "odata"
	}

	factory := promauto.With(reg)

	return &Metrics{
		Batches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Total number of batch requests served",
			},
			[]string{"result"},
		),
		Groups: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_groups",
				Help:      "Number of groups in a decoded batch",
				Buckets:   []float64{1, 2, 5, 10, 50, 100, 500, 1000},
			},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_decode_duration_seconds",
				Help:      "Time spent reading and decoding a batch body",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) observe(result string, groups int, seconds float64) {
	if m == nil {
		return
	}

	m.Batches.WithLabelValues(result).Inc()
	m.Duration.Observe(seconds)
	if result == resultOK {
		m.Groups.Observe(float64(groups))
	}
}
