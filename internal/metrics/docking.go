// Package metrics exposes Prometheus collectors for docking runs and the results API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Docking Prometheus metrics.
var (
	TrialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vinagrid",
			Name:      "docking_trials_total",
			Help:      "Total number of docking engine calls",
		},
		[]string{"status"}, // "ok" / "error"
	)

	TrialDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vinagrid",
			Name:      "docking_trial_duration_seconds",
			Help:      "Docking engine call duration in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	PointsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vinagrid",
			Name:      "grid_points_total",
			Help:      "Grid centers processed",
		},
		[]string{"outcome"}, // "pose" / "no_pose"
	)

	RMSDTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vinagrid",
			Name:      "rmsd_calculations_total",
			Help:      "RMSD calculations against the reference ligand",
		},
		[]string{"status"},
	)

	RMSDFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vinagrid",
			Name:      "rmsd_values_filtered_total",
			Help:      "RMSD values dropped at or above the threshold",
		},
	)

	RunsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vinagrid",
			Name:      "runs_in_flight",
			Help:      "Docking runs currently executing",
		},
	)
)

var registerOnce sync.Once

// Register registers the docking and HTTP collectors with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(TrialsTotal)
		prometheus.MustRegister(TrialDuration)
		prometheus.MustRegister(PointsTotal)
		prometheus.MustRegister(RMSDTotal)
		prometheus.MustRegister(RMSDFiltered)
		prometheus.MustRegister(RunsInFlight)
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
	})
}
