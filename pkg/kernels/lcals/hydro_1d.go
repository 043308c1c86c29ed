// Package lcals holds kernels from the Livermore Compiler Analysis Loop
// Suite: stencils over shifted views of one input vector.
package lcals

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Hydro1D is the hydrodynamics fragment x[i] = q + y[i]*(r*z[i+10] + t*z[i+11]).
type Hydro1D struct {
	*kernel.Base
	x, y, z  []float64
	q, r, t  float64
	variants map[suite.VariantID]kernel.Body
}

func NewHydro1D(rp *params.RunParams) *Hydro1D {
	k := &Hydro1D{Base: kernel.NewBase(suite.Lcals_HYDRO_1D, rp, 100000, 12500)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *Hydro1D) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.x = kernel.InitDataConst(n, 0)
	k.y = kernel.InitData(n, 1)
	k.z = kernel.InitData(n+12, 2)
	k.q, k.r, k.t = 0.5, 0.5, 0.5
}

func (k *Hydro1D) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Hydro1D) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.x))
}

func (k *Hydro1D) TearDown(vid suite.VariantID) { k.x, k.y, k.z = nil, nil, nil }

func (k *Hydro1D) body(i int) {
	k.x[i] = k.q + k.y[i]*(k.r*k.z[i+10]+k.t*k.z[i+11])
}

func (k *Hydro1D) baseSeq() error {
	x, y, z := k.x, k.y, k.z
	q, r, t := k.q, k.r, k.t
	k.Repeat(func() {
		for i := range x {
			x[i] = q + y[i]*(r*z[i+10]+t*z[i+11])
		}
	})
	return nil
}

func (k *Hydro1D) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(forall.Simd, 0, n, k.body) })
	return nil
}

func (k *Hydro1D) baseOpenMP() error {
	x, y, z := k.x, k.y, k.z
	q, r, t := k.q, k.r, k.t
	tm := k.Team()
	k.Repeat(func() {
		tm.ParallelFor(0, len(x), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				x[i] = q + y[i]*(r*z[i+10]+t*z[i+11])
			}
		})
	})
	return nil
}

func (k *Hydro1D) rajaLikeOpenMP() error {
	tm := k.Team()
	n := k.RunSize()
	k.Repeat(func() { tm.ForEach(0, n, k.body) })
	return nil
}

func (k *Hydro1D) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(p, 0, n, k.body) })
	return nil
}
