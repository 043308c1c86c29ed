// Package polybench holds dense linear algebra kernels from PolyBench. The
// run size of these kernels is the matrix dimension; all matrices are
// square and stored row-major.
package polybench

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// MM2 computes D = alpha*A*B*C + beta*D through a temporary product.
type MM2 struct {
	*kernel.Base
	n            int
	alpha, beta  float64
	tmp, a, b, c []float64
	d            []float64
	variants     map[suite.VariantID]kernel.Body
}

func NewMM2(rp *params.RunParams) *MM2 {
	k := &MM2{Base: kernel.NewBase(suite.Polybench_2MM, rp, 200, 40)}
	k.n = k.RunSize()
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *MM2) SetUp(vid suite.VariantID) {
	nn := k.n * k.n
	k.alpha, k.beta = 1.5, 1.2
	k.tmp = kernel.InitDataConst(nn, 0)
	k.a = kernel.InitData(nn, 0)
	k.b = kernel.InitData(nn, 1)
	k.c = kernel.InitData(nn, 2)
	k.d = kernel.InitData(nn, 3)
}

func (k *MM2) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *MM2) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.d))
}

func (k *MM2) TearDown(vid suite.VariantID) {
	k.tmp, k.a, k.b, k.c, k.d = nil, nil, nil, nil, nil
}

// tmpAt computes tmp[i][j] = sum_k alpha*A[i][k]*B[k][j].
func (k *MM2) tmpAt(i, j int) {
	n := k.n
	dot := 0.0
	for kk := 0; kk < n; kk++ {
		dot += k.alpha * k.a[i*n+kk] * k.b[kk*n+j]
	}
	k.tmp[i*n+j] = dot
}

// dAt computes D[i][l] = beta*D[i][l] + sum_j tmp[i][j]*C[j][l].
func (k *MM2) dAt(i, l int) {
	n := k.n
	dot := k.d[i*n+l] * k.beta
	for j := 0; j < n; j++ {
		dot += k.tmp[i*n+j] * k.c[j*n+l]
	}
	k.d[i*n+l] = dot
}

func (k *MM2) tmpRows(lo, hi int) {
	for i := lo; i < hi; i++ {
		for j := 0; j < k.n; j++ {
			k.tmpAt(i, j)
		}
	}
}

func (k *MM2) dRows(lo, hi int) {
	for i := lo; i < hi; i++ {
		for l := 0; l < k.n; l++ {
			k.dAt(i, l)
		}
	}
}

func (k *MM2) baseSeq() error {
	n := k.n
	alpha, beta := k.alpha, k.beta
	tmp, a, b, c, d := k.tmp, k.a, k.b, k.c, k.d
	k.Repeat(func() {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				dot := 0.0
				for kk := 0; kk < n; kk++ {
					dot += alpha * a[i*n+kk] * b[kk*n+j]
				}
				tmp[i*n+j] = dot
			}
		}
		for i := 0; i < n; i++ {
			for l := 0; l < n; l++ {
				dot := d[i*n+l] * beta
				for j := 0; j < n; j++ {
					dot += tmp[i*n+j] * c[j*n+l]
				}
				d[i*n+l] = dot
			}
		}
	})
	return nil
}

func (k *MM2) rajaSeq() error {
	k.Repeat(func() {
		forall.Forall2(forall.Seq, k.n, k.n, k.tmpAt)
		forall.Forall2(forall.Seq, k.n, k.n, k.dAt)
	})
	return nil
}

func (k *MM2) baseOpenMP() error {
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, k.n, k.tmpRows)
		t.ParallelFor(0, k.n, k.dRows)
	})
	return nil
}

func (k *MM2) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	k.Repeat(func() {
		forall.Forall2(p, k.n, k.n, k.tmpAt)
		forall.Forall2(p, k.n, k.n, k.dAt)
	})
	return nil
}
