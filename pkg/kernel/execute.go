package kernel

import (
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Execute runs one full lifecycle of k for vid and returns the variant's
// accumulated result. TearDown always runs, including when SetUp or
// RunKernel panic; the panic is then propagated.
func Execute(k Kernel, vid suite.VariantID) Result {
	b := k.Core()
	b.advance(vid, phaseIdle, phaseSetUp, "SetUp")
	b.passStat[vid] = NotRun

	defer func() {
		k.TearDown(vid)
		b.phases[vid] = phaseIdle
		b.timing = false
	}()

	k.SetUp(vid)
	k.RunKernel(vid)
	if b.phases[vid] != phaseRan {
		// RunKernel never dispatched through Run.
		b.advance(vid, phaseSetUp, phaseRan, "RunKernel")
		b.passStat[vid] = NotApplicable
		b.record(vid, NotApplicable, 0, ErrNotApplicable)
	}
	k.UpdateChecksum(vid)
	b.advance(vid, phaseRan, phaseChecked, "UpdateChecksum")

	return k.Result(vid)
}
