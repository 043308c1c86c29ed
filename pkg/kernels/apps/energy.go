package apps

import (
	"math"

	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Energy is the multi-loop internal energy and artificial viscosity
// update of a Lagrangian hydro code. Each loop reads what the previous one
// wrote, so the loops are separate parallel regions.
type Energy struct {
	*kernel.Base
	eNew, eOld, delvc       []float64
	pOld, qOld, work        []float64
	compHalfStep, pHalfStep []float64
	bvc, pbvc               []float64
	qlOld, qqOld, qNew      []float64
	rho0, eCut, emin        float64
	variants                map[suite.VariantID]kernel.Body
}

func NewEnergy(rp *params.RunParams) *Energy {
	k := &Energy{Base: kernel.NewBase(suite.Apps_ENERGY, rp, 100000, 1300)}
	k.variants = map[suite.VariantID]kernel.Body{
		suite.Base_Seq:    k.baseSeq,
		suite.RAJA_Seq:    k.rajaSeq,
		suite.Base_OpenMP: k.baseOpenMP,
		suite.RAJA_OpenMP: k.rajaOpenMP,
	}
	return k
}

func (k *Energy) SetUp(vid suite.VariantID) {
	n := k.RunSize()
	k.eNew = kernel.InitDataConst(n, 0)
	k.eOld = kernel.InitData(n, 0)
	k.delvc = kernel.InitDataRandSign(n, 1)
	k.pOld = kernel.InitData(n, 2)
	k.qOld = kernel.InitData(n, 3)
	k.work = kernel.InitData(n, 4)
	k.compHalfStep = kernel.InitData(n, 5)
	k.pHalfStep = kernel.InitData(n, 6)
	k.bvc = kernel.InitData(n, 7)
	k.pbvc = kernel.InitData(n, 8)
	k.qlOld = kernel.InitData(n, 9)
	k.qqOld = kernel.InitData(n, 10)
	k.qNew = kernel.InitDataConst(n, 0)
	k.rho0 = 0.5
	k.eCut = 1e-7
	k.emin = -1e15
}

func (k *Energy) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *Energy) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, kernel.CalcChecksum(k.eNew)+kernel.CalcChecksum(k.qNew))
}

func (k *Energy) TearDown(vid suite.VariantID) {
	k.eNew, k.eOld, k.delvc = nil, nil, nil
	k.pOld, k.qOld, k.work = nil, nil, nil
	k.compHalfStep, k.pHalfStep = nil, nil
	k.bvc, k.pbvc = nil, nil
	k.qlOld, k.qqOld, k.qNew = nil, nil, nil
}

func (k *Energy) predictE(i int) {
	k.eNew[i] = k.eOld[i] - 0.5*k.delvc[i]*(k.pOld[i]+k.qOld[i]) + 0.5*k.work[i]
}

func (k *Energy) clampE(i int) {
	if math.Abs(k.eNew[i]) < k.eCut {
		k.eNew[i] = 0
	}
	if k.eNew[i] < k.emin {
		k.eNew[i] = k.emin
	}
}

func (k *Energy) viscosity(i int) {
	if k.delvc[i] > 0 {
		k.qNew[i] = 0
		return
	}
	vhalf := 1.0 / (1.0 + k.compHalfStep[i])
	ssc := (k.pbvc[i]*k.eNew[i] + vhalf*vhalf*k.bvc[i]*k.pHalfStep[i]) / k.rho0
	if ssc <= 0.1111111e-36 {
		ssc = 0.3333333e-18
	} else {
		ssc = math.Sqrt(ssc)
	}
	k.qNew[i] = ssc*k.qlOld[i] + k.qqOld[i]
}

func (k *Energy) correctE(i int) {
	k.eNew[i] += 0.5 * k.delvc[i] * (3.0*(k.pOld[i]+k.qOld[i]) - 4.0*(k.pHalfStep[i]+k.qNew[i]))
}

func (k *Energy) finishE(i int) {
	k.eNew[i] += 0.5 * k.work[i]
	k.clampE(i)
}

// loops lists the update in order.
func (k *Energy) loops() []func(i int) {
	return []func(i int){k.predictE, k.clampE, k.viscosity, k.correctE, k.finishE}
}

func (k *Energy) baseSeq() error {
	n := k.RunSize()
	loops := k.loops()
	k.Repeat(func() {
		for _, loop := range loops {
			for i := 0; i < n; i++ {
				loop(i)
			}
		}
	})
	return nil
}

func (k *Energy) rajaSeq() error {
	n := k.RunSize()
	loops := k.loops()
	k.Repeat(func() {
		for _, loop := range loops {
			forall.Forall(forall.Seq, 0, n, loop)
		}
	})
	return nil
}

func (k *Energy) baseOpenMP() error {
	n := k.RunSize()
	t := k.Team()
	loops := k.loops()
	k.Repeat(func() {
		for _, loop := range loops {
			t.ParallelFor(0, n, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					loop(i)
				}
			})
		}
	})
	return nil
}

func (k *Energy) rajaOpenMP() error {
	n := k.RunSize()
	p := forall.Parallel(k.Team())
	loops := k.loops()
	k.Repeat(func() {
		for _, loop := range loops {
			forall.Forall(p, 0, n, loop)
		}
	})
	return nil
}
