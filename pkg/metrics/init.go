package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initJobMetrics() {
	r.JobsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_jobs_total",
			Help: "Total number of jobs handled",
		},
		[]string{"type", "status"},
	)

	r.JobDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "router_job_duration_seconds",
			Help:    "End-to-end job handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	r.JobsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "router_jobs_in_flight",
			Help: "Jobs currently being handled",
		},
	)
}

func (r *Registry) initMapMetrics() {
	r.PairsComputedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "router_pairs_computed_total",
			Help: "Landmark pairs with a computed distance record",
		},
	)

	r.PairsFailedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "router_pairs_failed_total",
			Help: "Landmark pairs dropped due to a computation fault",
		},
	)

	r.NoPathTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "router_pairs_no_path_total",
			Help: "Landmark pairs recorded with the no-path sentinel",
		},
	)

	r.GridCells = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "router_grid_cells",
			Help:    "Cell count of processed map grids",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
	)
}

func (r *Registry) initTourMetrics() {
	r.TourSolveDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "router_tour_solve_duration_seconds",
			Help:    "Tour solve duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"strategy"},
	)

	r.TourPoints = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "router_tour_points",
			Help:    "Point count of tour requests",
			Buckets: []float64{2, 5, 7, 10, 25, 50, 100},
		},
	)

	r.ToursFailedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "router_tours_failed_total",
			Help: "Tour requests that ended without a valid tour",
		},
	)
}
