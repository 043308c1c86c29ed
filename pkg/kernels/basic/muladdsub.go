// Package basic holds small loop kernels that exercise simple arithmetic,
// branching, reductions and nested index spaces.
package basic

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// MulAddSub computes the product, sum and difference of two inputs into
// three outputs.
type MulAddSub struct {
	*kernel.Base
	in1, in2         []float64
	out1, out2, out3 []float64
	variants         map[suite.VariantID]kernel.Body
}

func NewMulAddSub(rp *params.RunParams) *MulAddSub {
	k := &MulAddSub{Base: kernel.NewBase(suite.Basic_MULADDSUB, rp, 100000, 3500)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *MulAddSub) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.in1 = kernel.InitData(n, 0)
	k.in2 = kernel.InitData(n, 1)
	k.out1 = kernel.InitDataConst(n, 0)
	k.out2 = kernel.InitDataConst(n, 0)
	k.out3 = kernel.InitDataConst(n, 0)
}

func (k *MulAddSub) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *MulAddSub) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.out1)+
		kernel.CalcChecksum(k.out2)+
		kernel.CalcChecksum(k.out3))
}

func (k *MulAddSub) TearDown(vid suite.VariantID) {
	k.in1, k.in2 = nil, nil
	k.out1, k.out2, k.out3 = nil, nil, nil
}

func (k *MulAddSub) body(i int) {
	k.out1[i] = k.in1[i] * k.in2[i]
	k.out2[i] = k.in1[i] + k.in2[i]
	k.out3[i] = k.in1[i] - k.in2[i]
}

func (k *MulAddSub) baseSeq() error {
	in1, in2 := k.in1, k.in2
	out1, out2, out3 := k.out1, k.out2, k.out3
	k.Repeat(func() {
		for i := range in1 {
			out1[i] = in1[i] * in2[i]
			out2[i] = in1[i] + in2[i]
			out3[i] = in1[i] - in2[i]
		}
	})
	return nil
}

func (k *MulAddSub) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(forall.Simd, 0, n, k.body) })
	return nil
}

func (k *MulAddSub) baseOpenMP() error {
	in1, in2 := k.in1, k.in2
	out1, out2, out3 := k.out1, k.out2, k.out3
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(in1), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out1[i] = in1[i] * in2[i]
				out2[i] = in1[i] + in2[i]
				out3[i] = in1[i] - in2[i]
			}
		})
	})
	return nil
}

func (k *MulAddSub) rajaLikeOpenMP() error {
	t := k.Team()
	n := k.RunSize()
	k.Repeat(func() { t.ForEach(0, n, k.body) })
	return nil
}

func (k *MulAddSub) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(p, 0, n, k.body) })
	return nil
}
