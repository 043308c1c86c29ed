package polybench

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Gemmver is the vector multiplication and matrix addition sequence:
//
//	A += u1*v1' + u2*v2'
//	x += beta*A'*y + z
//	w += alpha*A*x
type Gemmver struct {
	*kernel.Base
	n              int
	alpha, beta    float64
	a              []float64
	u1, v1, u2, v2 []float64
	w, x, y, z     []float64
	variants       map[suite.VariantID]kernel.Body
}

func NewGemmver(rp *params.RunParams) *Gemmver {
	k := &Gemmver{Base: kernel.NewBase(suite.Polybench_GEMMVER, rp, 1000, 100)}
	k.n = k.RunSize()
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Gemmver) SetUp(vid suite.VariantID) {
	n := k.n
	k.alpha, k.beta = 1.5, 1.2
	k.a = kernel.InitData(n*n, 0)
	k.u1 = kernel.InitData(n, 1)
	k.v1 = kernel.InitData(n, 2)
	k.u2 = kernel.InitData(n, 3)
	k.v2 = kernel.InitData(n, 4)
	k.w = kernel.InitDataConst(n, 0)
	k.x = kernel.InitDataConst(n, 0)
	k.y = kernel.InitData(n, 5)
	k.z = kernel.InitData(n, 6)
}

func (k *Gemmver) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Gemmver) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.w))
}

func (k *Gemmver) TearDown(vid suite.VariantID) {
	k.a = nil
	k.u1, k.v1, k.u2, k.v2 = nil, nil, nil, nil
	k.w, k.x, k.y, k.z = nil, nil, nil, nil
}

func (k *Gemmver) rankTwo(i, j int) {
	k.a[i*k.n+j] += k.u1[i]*k.v1[j] + k.u2[i]*k.v2[j]
}

func (k *Gemmver) transposeMul(i int) {
	n := k.n
	dot := k.x[i]
	for j := 0; j < n; j++ {
		dot += k.beta * k.a[j*n+i] * k.y[j]
	}
	k.x[i] = dot
}

func (k *Gemmver) addZ(i int) { k.x[i] += k.z[i] }

func (k *Gemmver) mul(i int) {
	n := k.n
	dot := k.w[i]
	for j := 0; j < n; j++ {
		dot += k.alpha * k.a[i*n+j] * k.x[j]
	}
	k.w[i] = dot
}

func (k *Gemmver) baseSeq() error {
	n := k.n
	alpha, beta := k.alpha, k.beta
	a, u1, v1, u2, v2 := k.a, k.u1, k.v1, k.u2, k.v2
	w, x, y, z := k.w, k.x, k.y, k.z
	k.Repeat(func() {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				a[i*n+j] += u1[i]*v1[j] + u2[i]*v2[j]
			}
		}
		for i := 0; i < n; i++ {
			dot := x[i]
			for j := 0; j < n; j++ {
				dot += beta * a[j*n+i] * y[j]
			}
			x[i] = dot
		}
		for i := 0; i < n; i++ {
			x[i] += z[i]
		}
		for i := 0; i < n; i++ {
			dot := w[i]
			for j := 0; j < n; j++ {
				dot += alpha * a[i*n+j] * x[j]
			}
			w[i] = dot
		}
	})
	return nil
}

func (k *Gemmver) rajaSeq() error {
	n := k.n
	k.Repeat(func() {
		forall.Forall2(forall.Seq, n, n, k.rankTwo)
		forall.Forall(forall.Seq, 0, n, k.transposeMul)
		forall.Forall(forall.Simd, 0, n, k.addZ)
		forall.Forall(forall.Seq, 0, n, k.mul)
	})
	return nil
}

func (k *Gemmver) baseOpenMP() error {
	n := k.n
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, n, rows(n, k.rankTwo))
		t.ParallelFor(0, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.transposeMul(i)
			}
		})
		t.ParallelFor(0, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.addZ(i)
			}
		})
		t.ParallelFor(0, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				k.mul(i)
			}
		})
	})
	return nil
}

func (k *Gemmver) rajaOpenMP() error {
	n := k.n
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall2(p, n, n, k.rankTwo)
		forall.Forall(p, 0, n, k.transposeMul)
		forall.Forall(p, 0, n, k.addZ)
		forall.Forall(p, 0, n, k.mul)
	})
	return nil
}
