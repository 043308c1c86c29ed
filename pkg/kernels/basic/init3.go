package basic

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Init3 writes the negated sum of two inputs into three outputs.
type Init3 struct {
	*kernel.Base
	in1, in2         []float64
	out1, out2, out3 []float64
	variants         map[suite.VariantID]kernel.Body
}

func NewInit3(rp *params.RunParams) *Init3 {
	k := &Init3{Base: kernel.NewBase(suite.Basic_INIT3, rp, 100000, 5000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *Init3) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.in1 = kernel.InitData(n, 0)
	k.in2 = kernel.InitData(n, 1)
	k.out1 = kernel.InitDataConst(n, 0)
	k.out2 = kernel.InitDataConst(n, 0)
	k.out3 = kernel.InitDataConst(n, 0)
}

func (k *Init3) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Init3) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.out1)+
		kernel.CalcChecksum(k.out2)+
		kernel.CalcChecksum(k.out3))
}

func (k *Init3) TearDown(vid suite.VariantID) {
	k.in1, k.in2 = nil, nil
	k.out1, k.out2, k.out3 = nil, nil, nil
}

func (k *Init3) body(i int) {
	v := -k.in1[i] - k.in2[i]
	k.out1[i], k.out2[i], k.out3[i] = v, v, v
}

func (k *Init3) baseSeq() error {
	in1, in2 := k.in1, k.in2
	out1, out2, out3 := k.out1, k.out2, k.out3
	k.Repeat(func() {
		for i := range in1 {
			v := -in1[i] - in2[i]
			out1[i], out2[i], out3[i] = v, v, v
		}
	})
	return nil
}

func (k *Init3) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(forall.Simd, 0, n, k.body) })
	return nil
}

func (k *Init3) baseOpenMP() error {
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, len(k.in1), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.body(i)
			}
		})
	})
	return nil
}

func (k *Init3) rajaLikeOpenMP() error {
	t := k.Team()
	n := k.RunSize()
	k.Repeat(func() { t.ForEach(0, n, k.body) })
	return nil
}

func (k *Init3) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	n := k.RunSize()
	k.Repeat(func() { forall.Forall(p, 0, n, k.body) })
	return nil
}
