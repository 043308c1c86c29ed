package basic

import (
	"math"

	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// TrapInt integrates 1/|p - q| along a line with the trapezoid rule. The
// integrand is evaluated inline, so the kernel does no memory traffic.
type TrapInt struct {
	*kernel.Base
	x0, xp, y, yp, h float64
	sumx, sumxInit   float64
	variants         map[suite.VariantID]kernel.Body
}

func NewTrapInt(rp *params.RunParams) *TrapInt {
	k := &TrapInt{Base: kernel.NewBase(suite.Basic_TRAP_INT, rp, 100000, 2000)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *TrapInt) SetUp(vid suite.VariantID) {
	k.x0 = 0.0
	k.xp = 0.5
	k.y = 0.1
	k.yp = 0.5
	k.h = 1.0 / float64(k.RunSize())
	k.sumx = 0
	k.sumxInit = 0.5
}

func (k *TrapInt) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *TrapInt) UpdateChecksum(vid suite.VariantID) { k.AddChecksum(vid, k.sumx) }

func (k *TrapInt) TearDown(vid suite.VariantID) {}

func trapIntFunc(x, y, xp, yp float64) float64 {
	denom := (x-xp)*(x-xp) + (y-yp)*(y-yp)
	return 1.0 / math.Sqrt(denom)
}

func (k *TrapInt) f(i int) float64 {
	return trapIntFunc(k.x0+float64(i)*k.h, k.y, k.xp, k.yp)
}

func (k *TrapInt) baseSeq() error {
	n := k.RunSize()
	k.Repeat(func() {
		sumx := k.sumxInit
		for i := 0; i < n; i++ {
			x := k.x0 + float64(i)*k.h
			sumx += trapIntFunc(x, k.y, k.xp, k.yp)
		}
		k.sumx += sumx * k.h
	})
	return nil
}

func (k *TrapInt) rajaSeq() error {
	n := k.RunSize()
	k.Repeat(func() {
		k.sumx += forall.Sum(forall.Seq, 0, n, k.sumxInit, k.f) * k.h
	})
	return nil
}

func (k *TrapInt) baseOpenMP() error {
	n := k.RunSize()
	t := k.Team()
	k.Repeat(func() {
		sumx := t.ReduceSum(0, n, k.sumxInit, func(lo, hi int) float64 {
			s := 0.0
			for i := lo; i < hi; i++ {
				s += k.f(i)
			}
			return s
		})
		k.sumx += sumx * k.h
	})
	return nil
}

func (k *TrapInt) rajaOpenMP() error {
	n := k.RunSize()
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		k.sumx += forall.Sum(p, 0, n, k.sumxInit, k.f) * k.h
	})
	return nil
}
