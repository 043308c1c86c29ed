package executor

import (
	"errors"
	"time"

	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// VariantResult is the outcome of one variant of one kernel across all
// passes.
type VariantResult struct {
	Variant  suite.VariantID
	Status   kernel.Status
	Elapsed  time.Duration
	Passes   []time.Duration
	Checksum float64
	// Delta is the relative deviation from the reference checksum. It is
	// only meaningful when Compared is set.
	Delta    float64
	Compared bool
	// Err is the failure or not-applicable cause.
	Err error
	// Warning is a *ChecksumDeviation when Delta exceeded the tolerance.
	Warning error
}

// KernelResult holds every selected variant of one kernel.
type KernelResult struct {
	Kernel    suite.KernelID
	RunSize   int
	RunReps   int
	Reference suite.VariantID
	// ReferenceChecksum is zero when the reference did not run.
	ReferenceChecksum float64
	Variants          []VariantResult
	// Warning wraps ErrReferenceMissing when no comparison was possible.
	Warning error
}

// Name returns the full kernel name.
func (kr *KernelResult) Name() string { return suite.FullKernelName(kr.Kernel) }

// ReferenceMissing reports whether the kernel's checksums went unchecked
// because the reference variant did not run.
func (kr *KernelResult) ReferenceMissing() bool { return errors.Is(kr.Warning, ErrReferenceMissing) }

// Variant returns the result for vid, if it was selected.
func (kr *KernelResult) Variant(vid suite.VariantID) (VariantResult, bool) {
	for _, v := range kr.Variants {
		if v.Variant == vid {
			return v, true
		}
	}
	return VariantResult{}, false
}

// RunResult is everything one suite run produced. It is returned to the
// caller and handed to every Reporter.
type RunResult struct {
	ID        string
	Start     time.Time
	End       time.Time
	NumPasses int
	Tolerance float64
	Kernels   []KernelResult
}

// Warnings returns every correctness warning in kernel order.
func (r *RunResult) Warnings() []error {
	var out []error
	for _, kr := range r.Kernels {
		if kr.Warning != nil {
			out = append(out, kr.Warning)
		}
		for _, v := range kr.Variants {
			if v.Warning != nil {
				out = append(out, v.Warning)
			}
		}
	}
	return out
}

// Mismatches returns the checksum deviations in kernel order.
func (r *RunResult) Mismatches() []*ChecksumDeviation {
	var out []*ChecksumDeviation
	for _, w := range r.Warnings() {
		var d *ChecksumDeviation
		if errors.As(w, &d) {
			out = append(out, d)
		}
	}
	return out
}

// Failures returns the variants whose body returned an error.
func (r *RunResult) Failures() []error {
	var out []error
	for _, kr := range r.Kernels {
		for _, v := range kr.Variants {
			if v.Status == kernel.Failed {
				out = append(out, v.Err)
			}
		}
	}
	return out
}

// Unverified returns the kernels whose checksums could not be compared
// against the reference variant.
func (r *RunResult) Unverified() []suite.KernelID {
	var out []suite.KernelID
	for _, kr := range r.Kernels {
		if kr.ReferenceMissing() {
			out = append(out, kr.Kernel)
		}
	}
	return out
}

// Healthy reports whether every kernel was checked against its reference,
// every comparison passed and nothing failed.
func (r *RunResult) Healthy() bool {
	return len(r.Mismatches()) == 0 && len(r.Failures()) == 0 && len(r.Unverified()) == 0
}
