// Package metrics exports analysis and fix counters in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"convlint/internal/diag"
	"convlint/internal/fix"
)

const namespace = "convlint"

// Metrics holds every collector of one run. It implements analysis.Observer.
type Metrics struct {
	registry *prometheus.Registry

	DetectorEvaluations *prometheus.CounterVec
	DetectorDuration    *prometheus.HistogramVec
	DiagnosticsTotal    *prometheus.CounterVec
	FilesAnalyzed       prometheus.Counter
	PassDuration        prometheus.Histogram
	FixesApplied        *prometheus.CounterVec
	FixesSkipped        *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DetectorEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detector_evaluations_total",
				Help:      "Number of detector evaluations",
			},
			[]string{"detector"},
		),
		DetectorDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "detector_duration_seconds",
				Help:      "Time spent in a single detector evaluation",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"detector"},
		),
		DiagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "Diagnostics reported, by rule code and severity",
			},
			[]string{"code", "severity"},
		),
		FilesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_analyzed_total",
			Help:      "Number of completed analysis passes",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of one analysis pass over a file",
			Buckets:   prometheus.DefBuckets,
		}),
		FixesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fixes_applied_total",
				Help:      "Fixes applied, by rule code and whether they were replayed",
			},
			[]string{"code", "mode"},
		),
		FixesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fixes_skipped_total",
				Help:      "Fixes skipped, by reason",
			},
			[]string{"reason"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_cache_lookups_total",
				Help:      "Decoded snapshot cache lookups in watch mode, by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.DetectorEvaluations,
		m.DetectorDuration,
		m.DiagnosticsTotal,
		m.FilesAnalyzed,
		m.PassDuration,
		m.FixesApplied,
		m.FixesSkipped,
		m.CacheLookups,
	)
	return m
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) DetectorEvaluated(detector string, dur time.Duration, _ int) {
	m.DetectorEvaluations.WithLabelValues(detector).Inc()
	m.DetectorDuration.WithLabelValues(detector).Observe(dur.Seconds())
}

func (m *Metrics) PassCompleted(_ string, diags []diag.Diagnostic, dur time.Duration) {
	m.FilesAnalyzed.Inc()
	m.PassDuration.Observe(dur.Seconds())
	for _, d := range diags {
		m.DiagnosticsTotal.WithLabelValues(d.Code.ID(), d.Severity.String()).Inc()
	}
}

// FixesDone records the outcome of one fix.Apply call.
func (m *Metrics) FixesDone(res *fix.ApplyResult) {
	if res == nil {
		return
	}
	for _, a := range res.Applied {
		mode := "batch"
		if a.Sequential {
			mode = "sequential"
		}
		m.FixesApplied.WithLabelValues(a.Code.ID(), mode).Inc()
	}
	for _, s := range res.Skipped {
		m.FixesSkipped.WithLabelValues(s.Reason).Inc()
	}
}

// CacheLookup counts one snapshot cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler serves the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
