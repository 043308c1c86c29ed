package polybench

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// MM3 computes G = (A*B)*(C*D) as three matrix products.
type MM3 struct {
	*kernel.Base
	n          int
	a, b, c, d []float64
	e, f, g    []float64
	variants   map[suite.VariantID]kernel.Body
}

func NewMM3(rp *params.RunParams) *MM3 {
	k := &MM3{Base: kernel.NewBase(suite.Polybench_3MM, rp, 200, 40)}
	k.n = k.RunSize()
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *MM3) SetUp(vid suite.VariantID) {
	nn := k.n * k.n
	k.a = kernel.InitData(nn, 0)
	k.b = kernel.InitData(nn, 1)
	k.c = kernel.InitData(nn, 2)
	k.d = kernel.InitData(nn, 3)
	k.e = kernel.InitDataConst(nn, 0)
	k.f = kernel.InitDataConst(nn, 0)
	k.g = kernel.InitDataConst(nn, 0)
}

func (k *MM3) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *MM3) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.g))
}

func (k *MM3) TearDown(vid suite.VariantID) {
	k.a, k.b, k.c, k.d = nil, nil, nil, nil
	k.e, k.f, k.g = nil, nil, nil
}

// product sets out[i][j] to row i of x times column j of y.
func product(n int, out, x, y []float64, i, j int) {
	dot := 0.0
	for kk := 0; kk < n; kk++ {
		dot += x[i*n+kk] * y[kk*n+j]
	}
	out[i*n+j] = dot
}

func (k *MM3) eAt(i, j int) { product(k.n, k.e, k.a, k.b, i, j) }
func (k *MM3) fAt(i, j int) { product(k.n, k.f, k.c, k.d, i, j) }
func (k *MM3) gAt(i, j int) { product(k.n, k.g, k.e, k.f, i, j) }

func rows(n int, at func(i, j int)) func(lo, hi int) {
	return func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < n; j++ {
				at(i, j)
			}
		}
	}
}

func (k *MM3) baseSeq() error {
	n := k.n
	a, b, c, d, e, f, g := k.a, k.b, k.c, k.d, k.e, k.f, k.g
	k.Repeat(func() {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				dot := 0.0
				for kk := 0; kk < n; kk++ {
					dot += a[i*n+kk] * b[kk*n+j]
				}
				e[i*n+j] = dot
			}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				dot := 0.0
				for kk := 0; kk < n; kk++ {
					dot += c[i*n+kk] * d[kk*n+j]
				}
				f[i*n+j] = dot
			}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				dot := 0.0
				for kk := 0; kk < n; kk++ {
					dot += e[i*n+kk] * f[kk*n+j]
				}
				g[i*n+j] = dot
			}
		}
	})
	return nil
}

func (k *MM3) rajaSeq() error {
	k.Repeat(func() {
		forall.Forall2(forall.Seq, k.n, k.n, k.eAt)
		forall.Forall2(forall.Seq, k.n, k.n, k.fAt)
		forall.Forall2(forall.Seq, k.n, k.n, k.gAt)
	})
	return nil
}

func (k *MM3) baseOpenMP() error {
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, k.n, rows(k.n, k.eAt))
		t.ParallelFor(0, k.n, rows(k.n, k.fAt))
		t.ParallelFor(0, k.n, rows(k.n, k.gAt))
	})
	return nil
}

func (k *MM3) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall2(p, k.n, k.n, k.eAt)
		forall.Forall2(p, k.n, k.n, k.fAt)
		forall.Forall2(p, k.n, k.n, k.gAt)
	})
	return nil
}
