package processor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of the processed counter
const (
	labelOK       = "ok"
	labelDegraded = "degraded"
	labelEmpty    = "empty"
	labelFailed   = "failed"
	labelBusy     = "busy"
)

// Metrics counts processed requests by outcome and times model round trips
type Metrics struct {
	processed *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates the processor collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verse_processor",
			Name:      "processed_total",
			Help:      "Number of processing requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "verse_processor",
			Name:      "request_duration_seconds",
			Help:      "Duration of model requests including normalization.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.processed, m.duration)
	}
	return m
}

func (m *Metrics) count(outcome string) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
