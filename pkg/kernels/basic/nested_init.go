package basic

import (
	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// nestedPlane is the fixed i*j extent of NestedInit; the run size scales
// the k extent.
const nestedPlane = 100

// NestedInit fills a 3-D array with 1e-8*i*j*k.
type NestedInit struct {
	*kernel.Base
	ni, nj, nk int
	array      []float64
	variants   map[suite.VariantID]kernel.Body
}

func NewNestedInit(rp *params.RunParams) *NestedInit {
	k := &NestedInit{Base: kernel.NewBase(suite.Basic_NESTED_INIT, rp, nestedPlane*nestedPlane*100, 100)}
	k.ni, k.nj = nestedPlane, nestedPlane
	k.nk = max(1, k.RunSize()/(k.ni*k.nj))
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:        k.baseSeq,
		suite.RAJA_Seq:        k.rajaSeq,
		suite.Base_OpenMP:     k.baseOpenMP,
		suite.RAJALike_OpenMP: k.rajaLikeOpenMP,
		suite.RAJA_OpenMP:     k.rajaOpenMP,
	}
	return k
}

func (k *NestedInit) SetUp(vid suite.VariantID) {
	k.array = kernel.InitDataConst(k.ni*k.nj*k.nk, 0)
}

func (k *NestedInit) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *NestedInit) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.array))
}

func (k *NestedInit) TearDown(vid suite.VariantID) { k.array = nil }

// plane initializes every (i, j) of one k plane.
func (k *NestedInit) plane(kk int) {
	ni, nj := k.ni, k.nj
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			k.array[i+ni*(j+nj*kk)] = 0.00000001 * float64(i) * float64(j) * float64(kk)
		}
	}
}

func (k *NestedInit) baseSeq() error {
	ni, nj, nk := k.ni, k.nj, k.nk
	array := k.array
	k.Repeat(func() {
		for kk := 0; kk < nk; kk++ {
			for j := 0; j < nj; j++ {
				for i := 0; i < ni; i++ {
					array[i+ni*(j+nj*kk)] = 0.00000001 * float64(i) * float64(j) * float64(kk)
				}
			}
		}
	})
	return nil
}

func (k *NestedInit) rajaSeq() error {
	ni, nj := k.ni, k.nj
	k.Repeat(func() {
		forall.Forall2(forall.Seq, k.nk, nj, func(kk, j int) {
			for i := 0; i < ni; i++ {
				k.array[i+ni*(j+nj*kk)] = 0.00000001 * float64(i) * float64(j) * float64(kk)
			}
		})
	})
	return nil
}

func (k *NestedInit) baseOpenMP() error {
	t := k.Team()
	k.Repeat(func() {
		t.ParallelFor(0, k.nk, func(lo, hi int) {
			for kk := lo; kk < hi; kk++ {
				k.plane(kk)
			}
		})
	})
	return nil
}

func (k *NestedInit) rajaLikeOpenMP() error {
	t := k.Team()
	k.Repeat(func() { t.ForEach(0, k.nk, k.plane) })
	return nil
}

func (k *NestedInit) rajaOpenMP() error {
	p := forall.Parallel(k.Team())
	k.Repeat(func() { forall.Forall(p, 0, k.nk, k.plane) })
	return nil
}
