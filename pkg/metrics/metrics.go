// Package metrics registers the Prometheus collectors for suite runs.
// Importing it registers the collectors with the default registry; the
// report package writes that registry to a textfile after each run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// KernelDuration is the timed duration of one pass of a kernel variant.
	// Buckets span 1us to ~18min so both tiny sampled runs and full-size
	// polybench passes land inside the range.
	KernelDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perfsuite_kernel_pass_duration_seconds",
			Help:    "Timed duration of one pass of a kernel variant.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 16),
		},
		[]string{"kernel", "variant"},
	)

	// ChecksumDelta is the relative deviation of a variant's checksum from
	// the reference variant's checksum after the last run.
	ChecksumDelta = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "perfsuite_checksum_relative_delta",
			Help: "Relative deviation of a variant checksum from the reference variant checksum.",
		},
		[]string{"kernel", "variant"},
	)

	// VariantOutcomes counts finished kernel variants by status: ran, n/a
	// or failed.
	VariantOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfsuite_variant_outcomes_total",
			Help: "Kernel variants finished by the suite driver, by status.",
		},
		[]string{"status"},
	)

	// CorrectnessWarnings counts correctness warnings by reason.
	//
	// Observed reason values:
	//   checksum_mismatch   relative deviation above tolerance
	//   reference_missing   the reference variant did not run
	CorrectnessWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfsuite_correctness_warnings_total",
			Help: "Correctness warnings raised while comparing checksums, by reason.",
		},
		[]string{"reason"},
	)

	// QuarantineTotal counts nodes tainted by the agent, by reason.
	//
	// Observed reason values:
	//   checksum_mismatch   a variant deviated from the reference
	//   variant_failed      a variant body returned an error
	//   reference_missing   the reference variant did not run, nothing was compared
	QuarantineTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfsuite_node_quarantine_total",
			Help: "Total number of nodes quarantined by the perfsuite agent, by reason.",
		},
		[]string{"reason"},
	)
)
