package basic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
	"github.com/justin-oleary/perfsuite/pkg/team"
)

func testParams(t *testing.T, args ...string) *params.RunParams {
	t.Helper()
	rp := params.New(args)
	require.Equal(t, params.GoodToRun, rp.InputState(), "errors: %v", rp.Errors())
	return rp
}

func TestReduce3IntIsExact(t *testing.T) {
	t.Parallel()

	k := NewReduce3Int(testParams(t, "--sizefrac", "0.001", "--sampfrac", "0.005"))
	k.SetTeam(team.New(4))

	vec := kernel.InitDataInt(k.RunSize(), 0)
	sum, lo, hi := 0, vec[0], vec[0]
	for _, v := range vec {
		sum += v
		lo = min(lo, v)
		hi = max(hi, v)
	}
	want := float64(k.RunReps()*sum + lo + hi)

	for _, vid := range []suite.VariantID{suite.Base_Seq, suite.RAJA_Seq, suite.Base_OpenMP, suite.RAJA_OpenMP} {
		res := kernel.Execute(k, vid)
		if res.Status == kernel.NotApplicable {
			continue
		}
		require.Equal(t, kernel.Ran, res.Status)
		assert.Equal(t, want, k.Checksum(vid), vid.String())
	}
}

func TestTrapIntMatchesDirectSum(t *testing.T) {
	t.Parallel()

	k := NewTrapInt(testParams(t, "--sizefrac", "0.01", "--sampfrac", "0.001"))
	n := k.RunSize()
	h := 1.0 / float64(n)
	sumx := 0.5
	for i := 0; i < n; i++ {
		sumx += trapIntFunc(float64(i)*h, 0.1, 0.5, 0.5)
	}
	want := float64(k.RunReps()) * sumx * h

	require.Equal(t, kernel.Ran, kernel.Execute(k, suite.Base_Seq).Status)
	assert.InEpsilon(t, want, k.Checksum(suite.Base_Seq), 1e-12)
}

func TestNestedInitScalesOuterExtent(t *testing.T) {
	t.Parallel()

	k := NewNestedInit(testParams(t, "--sizefrac", "0.04", "--sampfrac", "0.01"))
	assert.Equal(t, 4, k.nk)

	want := 0.0
	for kk := 0; kk < k.nk; kk++ {
		for j := 0; j < k.nj; j++ {
			for i := 0; i < k.ni; i++ {
				idx := i + k.ni*(j+k.nj*kk)
				want += float64(idx+1) * 0.00000001 * float64(i) * float64(j) * float64(kk)
			}
		}
	}
	require.Equal(t, kernel.Ran, kernel.Execute(k, suite.RAJA_Seq).Status)
	assert.InEpsilon(t, want, k.Checksum(suite.RAJA_Seq), 1e-9)
}

func TestIfQuadRootsSolveEquation(t *testing.T) {
	t.Parallel()

	k := NewIfQuad(testParams(t, "--sizefrac", "0.001", "--sampfrac", "0.001"))
	k.SetUp(suite.Base_Seq)
	defer k.TearDown(suite.Base_Seq)

	solved := 0
	for i := range k.a {
		k.body(i)
		if k.x1[i] == 0 && k.x2[i] == 0 {
			continue
		}
		solved++
		for _, x := range []float64{k.x1[i], k.x2[i]} {
			assert.InDelta(t, 0, k.a[i]*x*x+k.b[i]*x+k.c[i], 1e-9)
		}
	}
	assert.Positive(t, solved)
}

func TestMulAddSub(t *testing.T) {
	t.Parallel()

	k := NewMulAddSub(testParams(t, "--sizefrac", "0.001", "--sampfrac", "0.001"))
	require.Equal(t, kernel.Ran, kernel.Execute(k, suite.Base_Seq).Status)

	n := k.RunSize()
	in1, in2 := kernel.InitData(n, 0), kernel.InitData(n, 1)
	want := 0.0
	for i := 0; i < n; i++ {
		want += float64(i+1) * (in1[i]*in2[i] + (in1[i] + in2[i]) + (in1[i] - in2[i]))
	}
	assert.InEpsilon(t, want, k.Checksum(suite.Base_Seq), 1e-12)
}
