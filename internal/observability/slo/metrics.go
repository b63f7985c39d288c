package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the digest pipeline's
// scheduled runs. These targets are used to measure and monitor reliability
// of the per-tick digest job, not an HTTP surface (this pipeline has none).
const (
	// AvailabilitySLO defines the target percentage (99.9%) of users whose
	// digest run completes successfully on a given cron tick; SLOAvailability
	// reports the same quantity as a 0-1 ratio.
	AvailabilitySLO = 99.9

	// RunDurationP95SLO defines the target p95 duration, in seconds, for a
	// single user's digest run.
	RunDurationP95SLO = 30.0

	// RunDurationP99SLO defines the target p99 duration, in seconds, for a
	// single user's digest run.
	RunDurationP99SLO = 60.0

	// ErrorRateSLO defines the maximum acceptable ratio of failed user runs
	// per cron tick (0.1% = 0.001).
	ErrorRateSLO = 0.001
)

// SLO tracking metrics.
// These gauges are updated once per cron tick in cmd/worker's runDigestJob,
// from its processed/failed counts and the per-user run durations it collects.
var (
	// SLOAvailability tracks the current availability ratio (0-1),
	// calculated as: processed_users / total_users for the most recent tick.
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Current digest run availability ratio (0-1), target: 0.999",
		},
	)

	// SLORunDurationP95 tracks the current p95 run duration in seconds,
	// calculated from digest run durations across the most recent tick.
	SLORunDurationP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_run_duration_p95_seconds",
			Help: "Current p95 digest run duration in seconds, target: 30",
		},
	)

	// SLORunDurationP99 tracks the current p99 run duration in seconds.
	SLORunDurationP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_run_duration_p99_seconds",
			Help: "Current p99 digest run duration in seconds, target: 60",
		},
	)

	// SLOErrorRate tracks the current error rate ratio (0-1),
	// calculated as: failed_users / total_users for the most recent tick.
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current digest run error rate ratio (0-1), target: 0.001",
		},
	)
)

// UpdateAvailability updates the availability SLO metric.
// Call this once per cron tick with processed/total from that tick.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateRunDurationP95 updates the p95 run duration SLO metric.
func UpdateRunDurationP95(seconds float64) {
	SLORunDurationP95.Set(seconds)
}

// UpdateRunDurationP99 updates the p99 run duration SLO metric.
func UpdateRunDurationP99(seconds float64) {
	SLORunDurationP99.Set(seconds)
}

// UpdateErrorRate updates the error rate SLO metric.
// Call this once per cron tick with failed/total from that tick.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}
