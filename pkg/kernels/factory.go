// Package kernels maps kernel ids to their implementations.
package kernels

import (
	"fmt"

	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/kernels/apps"
	"github.com/justin-oleary/perfsuite/pkg/kernels/basic"
	"github.com/justin-oleary/perfsuite/pkg/kernels/lcals"
	"github.com/justin-oleary/perfsuite/pkg/kernels/polybench"
	"github.com/justin-oleary/perfsuite/pkg/kernels/stream"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Factory builds the kernel for id. Every valid id must map to a kernel.
type Factory func(id suite.KernelID, rp *params.RunParams) kernel.Kernel

// New returns a freshly constructed kernel for id, sized by rp. It panics
// on an id outside the enumeration.
func New(id suite.KernelID, rp *params.RunParams) kernel.Kernel {
	switch id {
	case suite.Basic_MULADDSUB:
		return basic.NewMulAddSub(rp)
	case suite.Basic_IF_QUAD:
		return basic.NewIfQuad(rp)
	case suite.Basic_TRAP_INT:
		return basic.NewTrapInt(rp)
	case suite.Basic_INIT3:
		return basic.NewInit3(rp)
	case suite.Basic_REDUCE3_INT:
		return basic.NewReduce3Int(rp)
	case suite.Basic_NESTED_INIT:
		return basic.NewNestedInit(rp)

	case suite.Lcals_HYDRO_1D:
		return lcals.NewHydro1D(rp)
	case suite.Lcals_EOS:
		return lcals.NewEOS(rp)
	case suite.Lcals_FIRST_DIFF:
		return lcals.NewFirstDiff(rp)

	case suite.Polybench_2MM:
		return polybench.NewMM2(rp)
	case suite.Polybench_3MM:
		return polybench.NewMM3(rp)
	case suite.Polybench_GEMMVER:
		return polybench.NewGemmver(rp)

	case suite.Stream_COPY:
		return stream.NewCopy(rp)
	case suite.Stream_MUL:
		return stream.NewMul(rp)
	case suite.Stream_ADD:
		return stream.NewAdd(rp)
	case suite.Stream_TRIAD:
		return stream.NewTriad(rp)
	case suite.Stream_DOT:
		return stream.NewDot(rp)

	case suite.Apps_PRESSURE:
		return apps.NewPressure(rp)
	case suite.Apps_ENERGY:
		return apps.NewEnergy(rp)
	case suite.Apps_FIR:
		return apps.NewFIR(rp)
	}
	panic(fmt.Sprintf("kernels: no kernel for %s", id))
}

// NewAll builds one kernel per id, in order.
func NewAll(ids []suite.KernelID, rp *params.RunParams) []kernel.Kernel {
	out := make([]kernel.Kernel, 0, len(ids))
	for _, id := range ids {
		out = append(out, New(id, rp))
	}
	return out
}
