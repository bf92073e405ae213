// Package metrics exposes prometheus metrics for the route planner worker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the worker.
type Registry struct {
	// Job metrics
	JobsTotal    *prometheus.CounterVec
	JobDuration  *prometheus.HistogramVec
	JobsInFlight prometheus.Gauge

	// Map-processing metrics
	PairsComputedTotal prometheus.Counter
	PairsFailedTotal   prometheus.Counter
	NoPathTotal        prometheus.Counter
	GridCells          prometheus.Histogram

	// Tour metrics
	TourSolveDuration *prometheus.HistogramVec
	TourPoints        prometheus.Histogram
	ToursFailedTotal  prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initJobMetrics()
	r.initMapMetrics()
	r.initTourMetrics()
	return r
}

// Handler returns an HTTP handler serving this registry in the prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordJob records one handled job with its terminal status and duration.
// jobType is "map_processing" or "tour_request"; status is "complete" or
// "error".
func (r *Registry) RecordJob(jobType, status string, duration time.Duration) {
	r.JobsTotal.WithLabelValues(jobType, status).Inc()
	r.JobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}

// RecordMapBuild records per-pair counts for one completed map build.
func (r *Registry) RecordMapBuild(cells, computed, failed, noPath int) {
	r.GridCells.Observe(float64(cells))
	r.PairsComputedTotal.Add(float64(computed))
	r.PairsFailedTotal.Add(float64(failed))
	r.NoPathTotal.Add(float64(noPath))
}

// RecordTourSolve records one tour solve by strategy ("brute_force",
// "nn_2opt" or "multi_start").
func (r *Registry) RecordTourSolve(strategy string, points int, duration time.Duration) {
	r.TourSolveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	r.TourPoints.Observe(float64(points))
}
