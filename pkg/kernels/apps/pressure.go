// Package apps holds kernels lifted from application codes: hydrodynamics
// pressure and energy updates and a finite impulse response filter.
package apps

import (
	"math"

	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Pressure is the two-loop pressure update of a Lagrangian hydro code.
type Pressure struct {
	*kernel.Base
	compression, bvc  []float64
	pNew, eOld, vnewc []float64
	cls, pCut, pmin   float64
	eosvmax           float64
	variants          map[suite.VariantID]kernel.Body
}

func NewPressure(rp *params.RunParams) *Pressure {
	k := &Pressure{Base: kernel.NewBase(suite.Apps_PRESSURE, rp, 100000, 7000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Pressure) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.compression = kernel.InitData(n, 0)
	k.bvc = kernel.InitData(n, 1)
	k.pNew = kernel.InitDataConst(n, 0)
	k.eOld = kernel.InitData(n, 2)
	k.vnewc = kernel.InitData(n, 3)
	k.cls = 0.1
	k.pCut = 1e-7
	k.pmin = 1e-10
	k.eosvmax = 0.1999
}

func (k *Pressure) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Pressure) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.pNew))
}

func (k *Pressure) TearDown(vid suite.VariantID) {
	k.compression, k.bvc = nil, nil
	k.pNew, k.eOld, k.vnewc = nil, nil, nil
}

func (k *Pressure) bvcAt(i int) { k.bvc[i] = k.cls * (k.compression[i] + 1.0) }

func (k *Pressure) pNewAt(i int) {
	p := k.bvc[i] * k.eOld[i]
	if math.Abs(p) < k.pCut {
		p = 0
	}
	if k.vnewc[i] >= k.eosvmax {
		p = 0
	}
	if p < k.pmin {
		p = k.pmin
	}
	k.pNew[i] = p
}

func (k *Pressure) baseSeq() error {
	compression, bvc := k.compression, k.bvc
	pNew, eOld, vnewc := k.pNew, k.eOld, k.vnewc
	cls, pCut, pmin, eosvmax := k.cls, k.pCut, k.pmin, k.eosvmax
	k.Repeat(func() {
		for i := range bvc {
			bvc[i] = cls * (compression[i] + 1.0)
		}
		for i := range pNew {
			pNew[i] = bvc[i] * eOld[i]
			if math.Abs(pNew[i]) < pCut {
				pNew[i] = 0
			}
			if vnewc[i] >= eosvmax {
				pNew[i] = 0
			}
			if pNew[i] < pmin {
				pNew[i] = pmin
			}
		}
	})
	return nil
}

func (k *Pressure) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() {
		forall.Forall(forall.Simd, 0, n, k.bvcAt)
		forall.Forall(forall.Simd, 0, n, k.pNewAt)
	})
	return nil
}

func (k *Pressure) baseOpenMP() error {
	n := k.RunSize()
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.bvcAt(i)
			}
		})
		t.ParallelFor(0, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.pNewAt(i)
			}
		})
	})
	return nil
}

func (k *Pressure) rajaOpenMP() error {
	n := k.RunSize()
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall(p, 0, n, k.bvcAt)
		forall.Forall(p, 0, n, k.pNewAt)
	})
	return nil
}
