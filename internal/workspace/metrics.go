package workspace

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for archive loading.
type Metrics struct {
	LoadsTotal *prometheus.CounterVec
	Loaded     prometheus.Gauge
}

// NewMetrics registers the workspace metrics once per process.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			LoadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "convsplit_archive_loads_total",
					Help: "Total number of archive load attempts",
				},
				[]string{"result"},
			),
			Loaded: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "convsplit_conversations_loaded",
					Help: "Number of conversations in the current archive",
				},
			),
		}
	})

	return globalMetrics
}

// RecordLoad counts a load attempt.
func (m *Metrics) RecordLoad(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.LoadsTotal.WithLabelValues(result).Inc()
}

// SetLoaded updates the loaded conversation gauge.
func (m *Metrics) SetLoaded(n int) {
	m.Loaded.Set(float64(n))
}
