// Package stream holds the STREAM-style memory bandwidth kernels: Copy,
// Mul, Add, Triad and the Dot reduction.
package stream

import (
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

const (
	defaultSize = 1000000
	defaultReps = 1800

	// alpha is the scalar used by Mul and Triad.
	alpha = 3.0
)

// vectors is the state shared by the element-wise stream kernels.
type vectors struct {
	*kernel.Base
	a, b, c  []float64
	variants map[suite.VariantID]kernel.Body
}

func newVectors(id suite.KernelID, rp *params.RunParams) vectors {
	return vectors{Base: kernel.NewBase(id, rp, defaultSize, defaultReps)}
}

func (v *vectors) SetUp(vid suite.VariantID) {
	n := v.RunSize()
	v.a = kernel.InitData(n, 0)
	v.b = kernel.InitData(n, 1)
	v.c = kernel.InitDataConst(n, 0)
}

func (v *vectors) RunKernel(vid suite.VariantID) { v.Run(vid, v.variants) }

func (v *vectors) TearDown(vid suite.VariantID) { v.a, v.b, v.c = nil, nil, nil }
