package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики проверок pipeline.
var (
	// ValidationsTotal — количество выполненных проверок по исходу.
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowlens_validations_total",
		Help: "Total number of pipeline validations by outcome.",
	}, []string{"outcome"})

	// FindingsTotal — количество обнаруженных missing-dependency проблем.
	FindingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlens_findings_total",
		Help: "Total number of missing-dependency findings reported.",
	})

	// ValidationDuration — длительность прогона процессора.
	ValidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowlens_validation_duration_seconds",
		Help:    "Duration of a single pipeline validation run.",
		Buckets: prometheus.DefBuckets,
	})

	// ExportsTotal — количество экспортов графа по формату.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowlens_graph_exports_total",
		Help: "Total number of graph exports by format.",
	}, []string{"format"})
)

// ObserveValidation фиксирует исход и длительность одной проверки.
func ObserveValidation(outcome string, findings int, started time.Time) {
	ValidationsTotal.WithLabelValues(outcome).Inc()
	FindingsTotal.Add(float64(findings))
	ValidationDuration.Observe(time.Since(started).Seconds())
}
