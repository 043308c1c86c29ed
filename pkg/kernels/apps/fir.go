package apps

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

const firCoefflen = 16

var firCoeff = [firCoefflen]float64{
	3.0, -1.0, -1.0, -1.0,
	-1.0, 3.0, -1.0, -1.0,
	-1.0, -1.0, 3.0, -1.0,
	-1.0, -1.0, -1.0, 3.0,
}

// FIR applies a 16-tap finite impulse response filter.
type FIR struct {
	*kernel.Base
	in, out  []float64
	variants map[suite.VariantID]kernel.Body
}

func NewFIR(rp *params.RunParams) *FIR {
	k := &FIR{Base: kernel.NewBase(suite.Apps_FIR, rp, 100000, 1600)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *FIR) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.in = kernel.InitData(n+firCoefflen, 0)
	k.out = kernel.InitDataConst(n, 0)
}

func (k *FIR) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *FIR) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.out))
}

func (k *FIR) TearDown(vid suite.VariantID) { k.in, k.out = nil, nil }

func (k *FIR) body(i int) {
	sum := 0.0
	for j, c := range firCoeff {
		sum += c * k.in[i+j]
	}
	k.out[i] = sum
}

func (k *FIR) baseSeq() error {
	in, out := k.in, k.out
	coeff := firCoeff
	k.Repeat(func() {
		for i := range out {
			sum := 0.0
			for j := 0; j < firCoefflen; j++ {
				sum += coeff[j] * in[i+j]
			}
			out[i] = sum
		}
	})
	return nil
}

func (k *FIR) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(forall.Seq, 0, n, k.body) })
	return nil
}

func (k *FIR) baseOpenMP() error {
	n := k.RunSize()
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.body(i)
			}
		})
	})
	return nil
}

func (k *FIR) rajaLikeOpenMP() error {
	n := k.RunSize()
	t := k.Team()
	k.Repeat(func() { t.ForEach(0, n, k.body) })
	return nil
}

func (k *FIR) rajaOpenMP() error {
	n := k.RunSize()
	p := forall.Parallel(k.Team())
	k.Repeat(func() { forall.Forall(p, 0, n, k.body) })
	return nil
}
