package kernel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin-oleary/perfsuite/pkg/forall"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// stepClock advances by step on every reading, so each timed region
// measures exactly step.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

// sumKernel is a minimal kernel: out[i] = 2*in[i], checksum over out.
type sumKernel struct {
	*Base
	in, out []float64

	failWith  error
	panicWith string
	setUps    int
	tearDowns int
	variants  map[suite.VariantID]Body
}

func newSumKernel(t *testing.T, args ...string) *sumKernel {
	t.Helper()
	rp := params.New(args)
	require.Equal(t, params.GoodToRun, rp.InputState())
	k := &sumKernel{Base: NewBase(suite.Stream_MUL, rp, 1000, 4)}
	k.variants = map[suite.VariantID]Body{
		suite.Base_Seq: func() error {
			if k.panicWith != "" {
				panic(k.panicWith)
			}
			if k.failWith != nil {
				return k.failWith
			}
			k.Repeat(func() {
				for i := range k.in {
					k.out[i] = 2 * k.in[i]
				}
			})
			return nil
		},
		suite.RAJA_Seq: func() error {
			k.Repeat(func() {
				forall.Forall(forall.Seq, 0, len(k.in), func(i int) { k.out[i] = 2 * k.in[i] })
			})
			return nil
		},
	}
	return k
}

func (k *sumKernel) SetUp(vid suite.VariantID) {
	k.setUps++
	k.in = InitData(k.RunSize(), 0)
	k.out = InitDataConst(k.RunSize(), 0)
}

func (k *sumKernel) RunKernel(vid suite.VariantID) { k.Run(vid, k.variants) }

func (k *sumKernel) UpdateChecksum(vid suite.VariantID) {
	k.AddChecksum(vid, CalcChecksum(k.out))
}

func (k *sumKernel) TearDown(vid suite.VariantID) {
	k.tearDowns++
	k.in, k.out = nil, nil
}

func TestExecuteRan(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t)
	k.SetClock((&stepClock{step: 10 * time.Millisecond}).Now)

	res := Execute(k, suite.Base_Seq)
	require.Equal(t, Ran, res.Status)
	assert.NoError(t, res.Err)
	assert.Equal(t, 10*time.Millisecond, res.Elapsed)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, res.Passes)
	assert.Equal(t, 1, k.setUps)
	assert.Equal(t, 1, k.tearDowns)
	assert.NotZero(t, k.Checksum(suite.Base_Seq))
	assert.Nil(t, k.in, "buffers released by TearDown")
}

func TestTimingAccumulatesAcrossPasses(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t)
	k.SetClock((&stepClock{step: 7 * time.Millisecond}).Now)

	var single time.Duration
	for pass := 0; pass < 3; pass++ {
		res := Execute(k, suite.Base_Seq)
		if pass == 0 {
			single = res.Elapsed
		}
	}
	res := k.Result(suite.Base_Seq)
	assert.Equal(t, 3*single, res.Elapsed)
	require.Len(t, res.Passes, 3)

	var sum time.Duration
	for _, d := range res.Passes {
		sum += d
	}
	assert.Equal(t, sum, res.Elapsed)
}

func TestChecksumAccumulatesAndMatchesAcrossVariants(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t)
	Execute(k, suite.Base_Seq)
	one := k.Checksum(suite.Base_Seq)
	Execute(k, suite.Base_Seq)
	assert.InDelta(t, 2*one, k.Checksum(suite.Base_Seq), 1e-9*one)

	Execute(k, suite.RAJA_Seq)
	Execute(k, suite.RAJA_Seq)
	assert.InEpsilon(t, k.Checksum(suite.Base_Seq), k.Checksum(suite.RAJA_Seq), 1e-9)
}

func TestNotApplicableVariant(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t)
	res := Execute(k, suite.RAJA_CUDA)
	assert.Equal(t, NotApplicable, res.Status)
	assert.ErrorIs(t, res.Err, ErrNotApplicable)
	assert.Zero(t, res.Elapsed)
	assert.Empty(t, res.Passes)
	assert.Zero(t, k.Checksum(suite.RAJA_CUDA))
	assert.Equal(t, 1, k.tearDowns)
}

func TestFailedVariantKeepsChecksumAndTearsDown(t *testing.T) {
	t.Parallel()

	boom := errors.New("device lost")
	k := newSumKernel(t)
	k.failWith = boom

	res := Execute(k, suite.Base_Seq)
	assert.Equal(t, Failed, res.Status)
	assert.ErrorIs(t, res.Err, boom)
	assert.Zero(t, k.Checksum(suite.Base_Seq))
	assert.Equal(t, 1, k.tearDowns)

	// a later clean pass does not hide the failure
	k.failWith = nil
	res = Execute(k, suite.Base_Seq)
	assert.Equal(t, Failed, res.Status)
	assert.NotZero(t, k.Checksum(suite.Base_Seq))
}

func TestPanickingBodyStillTearsDown(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t)
	k.panicWith = "corrupt"
	assert.PanicsWithValue(t, "corrupt", func() { Execute(k, suite.Base_Seq) })
	assert.Equal(t, 1, k.tearDowns)

	// the kernel is usable again afterwards
	k.panicWith = ""
	assert.Equal(t, Ran, Execute(k, suite.Base_Seq).Status)
}

func TestOutOfOrderLifecyclePanics(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t)
	assert.Panics(t, func() { k.RunKernel(suite.Base_Seq) }, "RunKernel before SetUp")
	assert.Panics(t, func() { k.UpdateChecksum(suite.Base_Seq) }, "UpdateChecksum before RunKernel")
	assert.Panics(t, func() { k.StopTimer() })
	assert.Panics(t, func() { Execute(k, suite.NumVariants) })
}

func TestSizing(t *testing.T) {
	t.Parallel()

	k := newSumKernel(t, "--sizefrac", "0.5", "--sampfrac", "0.5")
	assert.Equal(t, 1000, k.DefaultSize())
	assert.Equal(t, 500, k.RunSize())
	assert.Equal(t, 4, k.DefaultReps())
	assert.Equal(t, 2, k.RunReps())
	assert.Equal(t, "Stream_MUL", k.Name())
	assert.Equal(t, suite.Stream_MUL, k.ID())
}

func TestDataHelpersAreDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, InitData(64, 3), InitData(64, 3))
	assert.NotEqual(t, InitData(64, 0), InitData(64, 1))
	assert.Equal(t, InitDataRandSign(64, 5), InitDataRandSign(64, 5))
	assert.Equal(t, InitDataInt(64, 5), InitDataInt(64, 5))
	assert.InDelta(t, 0.1*1.1/1.12345, InitData(1, 0)[0], 1e-15)
	assert.Equal(t, 14.0, CalcChecksum([]float64{1, 2, 3}))
	assert.Equal(t, -3.0, CalcChecksumInt([]int{1, -2}))
}
