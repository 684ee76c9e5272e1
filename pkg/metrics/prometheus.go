package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	ObservationsProcessed prometheus.Counter
	PriceChanges          prometheus.Counter
	AlertsTriggered       prometheus.Counter
	NotificationsSent     prometheus.Counter
	ObservationTime       prometheus.Histogram
	ErrorsCount           *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ObservationsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_observations_total",
			Help:      "The total number of processed price observations",
		}),
		PriceChanges: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_changes_total",
			Help:      "The total number of observations that changed a tracked price",
		}),
		AlertsTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_triggered_total",
			Help:      "The total number of price alerts triggered",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "The total number of alert notifications dispatched to sinks",
		}),
		ObservationTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "price_observation_time_seconds",
			Help:      "Time taken to process a price observation",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
