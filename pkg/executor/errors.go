package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksumMismatch is the correctness warning raised when a variant's
	// accumulated checksum deviates from the reference variant's by more
	// than the configured relative tolerance.
	ErrChecksumMismatch = errors.New("checksum deviates from reference variant")

	// ErrReferenceMissing is raised when the reference variant did not run
	// for a kernel, so no comparison was possible.
	ErrReferenceMissing = errors.New("reference variant did not run")

	// ErrNotRunnable is returned by Run when the configuration is not
	// GoodToRun or selects no variant this binary can run.
	ErrNotRunnable = errors.New("run configuration is not runnable")
)

// ChecksumDeviation wraps ErrChecksumMismatch with the values that raised
// it. Reporters use errors.As to extract them.
type ChecksumDeviation struct {
	Cause          error
	Kernel         string
	Variant        string
	Reference      string
	MeasuredValue  float64 // relative deviation
	ThresholdValue float64 // tolerance
}

func newChecksumDeviation(kernel, variant, reference string, delta, tol float64) *ChecksumDeviation {
	return &ChecksumDeviation{
		Cause: fmt.Errorf("%s %s vs %s: %w (delta=%.3g > %.3g)",
			kernel, variant, reference, ErrChecksumMismatch, delta, tol),
		Kernel:         kernel,
		Variant:        variant,
		Reference:      reference,
		MeasuredValue:  delta,
		ThresholdValue: tol,
	}
}

func (d *ChecksumDeviation) Error() string { return d.Cause.Error() }
func (d *ChecksumDeviation) Unwrap() error { return d.Cause }
