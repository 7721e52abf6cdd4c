package export

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for exports.
type Metrics struct {
	ExportsTotal    *prometheus.CounterVec
	FilesTotal      prometheus.Counter
	ArtifactBytes   *prometheus.HistogramVec
	RedactionsTotal *prometheus.CounterVec
}

// NewMetrics registers the export metrics once per process.
//
// Metrics:
//   - convsplit_exports_total{kind,result} - export requests by kind (single, files, zip)
//   - convsplit_export_files_total - Markdown files rendered
//   - convsplit_export_artifact_bytes{kind} - size of produced artifacts
//   - convsplit_redactions_total{rule} - secrets replaced in exports
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ExportsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "convsplit_exports_total",
					Help: "Total number of export requests",
				},
				[]string{"kind", "result"},
			),
			FilesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "convsplit_export_files_total",
					Help: "Total number of Markdown files rendered",
				},
			),
			ArtifactBytes: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "convsplit_export_artifact_bytes",
					Help:    "Size of produced export artifacts in bytes",
					Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB to ~256MiB
				},
				[]string{"kind"},
			),
			RedactionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "convsplit_redactions_total",
					Help: "Total number of secrets redacted from exports",
				},
				[]string{"rule"},
			),
		}
	})

	return globalMetrics
}

// RecordExport records a finished export request.
func (m *Metrics) RecordExport(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ExportsTotal.WithLabelValues(kind, result).Inc()
}

// RecordArtifact records the size of a produced artifact.
func (m *Metrics) RecordArtifact(kind string, size int) {
	m.ArtifactBytes.WithLabelValues(kind).Observe(float64(size))
}

// RecordRedactions adds per-rule redaction counts.
func (m *Metrics) RecordRedactions(counts map[string]int) {
	for rule, n := range counts {
		m.RedactionsTotal.WithLabelValues(rule).Add(float64(n))
	}
}
