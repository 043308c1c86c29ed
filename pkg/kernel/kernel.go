// Package kernel defines the contract every suite kernel satisfies and the
// embeddable Base that implements the shared parts of it: sizing, the
// timer, the per-variant checksum array and the lifecycle guard.
//
// For each variant a kernel goes through, in strict order:
//
//	SetUp(vid) -> RunKernel(vid) -> UpdateChecksum(vid) -> TearDown(vid)
//
// Execute drives one such cycle. One kernel instance is reused across all
// variants and passes of a suite run.
package kernel

import (
	"errors"
	"time"

	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// ErrNotApplicable is recorded when a kernel has no body for a variant, or
// the variant is not compiled into this binary.
var ErrNotApplicable = errors.New("variant not applicable to kernel")

// Kernel is one benchmark kernel. Concrete kernels embed *Base and supply
// the four lifecycle methods.
type Kernel interface {
	ID() suite.KernelID
	Name() string
	DefaultSize() int
	DefaultReps() int
	RunSize() int
	RunReps() int

	// SetUp allocates and initializes buffers for vid. It must not rely on
	// state left by another variant.
	SetUp(vid suite.VariantID)
	// RunKernel executes the timed repetitions for vid.
	RunKernel(vid suite.VariantID)
	// UpdateChecksum folds the output of the last RunKernel into the
	// checksum slot of vid.
	UpdateChecksum(vid suite.VariantID)
	// TearDown releases what SetUp allocated. Safe after a partial SetUp.
	TearDown(vid suite.VariantID)

	Checksum(vid suite.VariantID) float64
	Result(vid suite.VariantID) Result

	// Core exposes the embedded Base to the lifecycle driver.
	Core() *Base
}

// Status is the outcome of a variant across the passes run so far.
type Status int

const (
	NotRun Status = iota
	Ran
	NotApplicable
	Failed
)

func (s Status) String() string {
	switch s {
	case Ran:
		return "ran"
	case NotApplicable:
		return "n/a"
	case Failed:
		return "failed"
	default:
		return "not-run"
	}
}

// Result is what one variant of a kernel produced.
type Result struct {
	Status Status
	// Elapsed is the timed total over every pass that ran.
	Elapsed time.Duration
	// Passes holds the timed duration of each pass that ran, in order.
	Passes []time.Duration
	// Err is set when Status is Failed or NotApplicable.
	Err error
}
