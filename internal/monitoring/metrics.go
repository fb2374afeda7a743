package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	// Export metrics
	ExportsTotal   *prometheus.CounterVec
	ExportDuration prometheus.Histogram
	ProblemsFound  prometheus.Gauge
	ChoicesFound   prometheus.Gauge

	// Clipboard metrics
	ClipboardAttempts *prometheus.CounterVec

	// Locator metrics
	StrategyHits *prometheus.CounterVec
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizexport_exports_total",
				Help: "Total number of export clicks by outcome",
			},
			[]string{"outcome"},
		),
		ExportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quizexport_export_duration_seconds",
				Help:    "Time from click to clipboard result in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		ProblemsFound: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "quizexport_problems_found",
				Help: "Problems located by the most recent export",
			},
		),
		ChoicesFound: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "quizexport_choices_found",
				Help: "Choices extracted by the most recent export",
			},
		),

		ClipboardAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizexport_clipboard_attempts_total",
				Help: "Clipboard strategy attempts by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),

		StrategyHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizexport_locator_strategy_hits_total",
				Help: "Exports by the locator strategy that found problems",
			},
			[]string{"strategy"},
		),
	}
}

// RecordExport records one finished export
func (m *Metrics) RecordExport(outcome string, problems, choices int, strategy string, duration time.Duration) {
	m.ExportsTotal.WithLabelValues(outcome).Inc()
	m.ExportDuration.Observe(duration.Seconds())
	m.ProblemsFound.Set(float64(problems))
	m.ChoicesFound.Set(float64(choices))
	if strategy == "" {
		strategy = "none"
	}
	m.StrategyHits.WithLabelValues(strategy).Inc()
}

// RecordClipboardAttempt records one clipboard strategy attempt
func (m *Metrics) RecordClipboardAttempt(strategy, outcome string) {
	m.ClipboardAttempts.WithLabelValues(strategy, outcome).Inc()
}

// WriteTextfile writes the registry for the node exporter textfile collector.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
