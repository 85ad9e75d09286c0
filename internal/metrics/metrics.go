// Package metrics exposes regression fit statistics as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dadi156/calgo-sub000/regression"
)

// Recorder collects fit metrics on a private registry. It implements
// regression.Observer and is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	FitsTotal   *prometheus.CounterVec
	FitDuration *prometheus.HistogramVec
	FitSamples  *prometheus.HistogramVec
}

var _ regression.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		FitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calgo_fits_total",
				Help: "Total number of regression fits by model kind and evaluation path",
			},
			[]string{"kind", "path"},
		),

		FitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calgo_fit_duration_seconds",
				Help:    "Duration of a single regression fit in seconds",
				Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 0.01, 0.05},
			},
			[]string{"kind"},
		),

		FitSamples: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calgo_fit_samples",
				Help:    "Number of samples passed to a regression fit",
				Buckets: prometheus.ExponentialBuckets(2, 2, 12),
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(r.FitsTotal, r.FitDuration, r.FitSamples)

	return r
}

// ObserveFit records one completed fit.
func (r *Recorder) ObserveFit(kind regression.Kind, path regression.Path, samples int, elapsed time.Duration) {
	k := kind.String()
	r.FitsTotal.WithLabelValues(k, path.String()).Inc()
	r.FitDuration.WithLabelValues(k).Observe(elapsed.Seconds())
	r.FitSamples.WithLabelValues(k).Observe(float64(samples))
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
