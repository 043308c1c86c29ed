package params

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/justin-oleary/perfsuite/pkg/suite"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	rp := New(nil)
	require.Equal(t, GoodToRun, rp.InputState())
	assert.Equal(t, defaultNumPasses, rp.NumPasses())
	assert.Equal(t, 1.0, rp.SampleFraction())
	assert.Equal(t, 1.0, rp.SizeFraction())
	assert.Equal(t, "Base_Seq", rp.ReferenceVariant())
	assert.Equal(t, defaultOutDir, rp.OutputDirName())
	assert.Equal(t, "perfsuite", rp.OutputFilePrefix())
	assert.Empty(t, rp.KernelIDs())
	assert.Empty(t, rp.VariantIDs())
	assert.Empty(t, rp.Errors())

	ref, ok := rp.ReferenceVariantID()
	require.True(t, ok)
	assert.Equal(t, suite.Base_Seq, ref)
}

func TestInputState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want InputState
	}{
		{"help long", []string{"--help"}, InfoRequest},
		{"help short", []string{"-h"}, InfoRequest},
		{"legacy print kernels", []string{"-pk"}, InfoRequest},
		{"print variants", []string{"--print-variants"}, InfoRequest},
		{"info wins over bad numeric", []string{"--npasses", "many", "-pg"}, InfoRequest},
		{"dry run", []string{"--dryrun", "-k", "Stream"}, DryRun},
		{"dry run with bad input", []string{"--dryrun", "--sizefrac", "2"}, BadInput},
		{"valid selection", []string{"-k", "Stream_DOT", "-v", "Base_Seq", "RAJA_Seq"}, GoodToRun},
		{"only invalid kernel", []string{"-k", "NoSuchKernel"}, BadInput},
		{"invalid plus valid kernel", []string{"-k", "NoSuchKernel", "Stream_DOT"}, GoodToRun},
		{"only invalid variant", []string{"-v", "Base_Fortran"}, BadInput},
		{"zero passes", []string{"--npasses", "0"}, BadInput},
		{"non-numeric passes", []string{"--npasses", "three"}, BadInput},
		{"zero sample fraction", []string{"--sampfrac", "0"}, BadInput},
		{"size fraction above one", []string{"--sizefrac=1.5"}, BadInput},
		{"size fraction of one", []string{"--sizefrac=1"}, GoodToRun},
		{"negative tolerance", []string{"--tolerance=-1"}, BadInput},
		{"infinite tolerance", []string{"--tolerance=Inf"}, BadInput},
		{"NaN tolerance", []string{"--tolerance", "NaN"}, BadInput},
		{"tolerance of one", []string{"--tolerance", "1"}, BadInput},
		{"small tolerance", []string{"--tolerance", "1e-6"}, GoodToRun},
		{"attached kernel shorthand", []string{"-kStream_DOT"}, GoodToRun},
		{"attached boolean shorthand", []string{"-hx"}, BadInput},
		{"unknown option", []string{"--frobnicate"}, BadInput},
		{"stray positional", []string{"Stream_DOT"}, BadInput},
		{"unknown reference variant", []string{"-rv", "Nope"}, BadInput},
		{"selector without tokens", []string{"-k"}, BadInput},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rp := New(tc.args)
			assert.Equal(t, tc.want, rp.InputState(), "errors: %v", rp.Errors())
			// repeated queries must not change the answer
			assert.Equal(t, tc.want, rp.InputState())
		})
	}
}

func TestInvalidKernelTokenIsRecorded(t *testing.T) {
	t.Parallel()

	alone := New([]string{"--kernels", "NoSuchKernel"})
	assert.Equal(t, BadInput, alone.InputState())
	assert.Equal(t, []string{"NoSuchKernel"}, alone.InvalidKernelInput())
	assert.Empty(t, alone.KernelInput())

	mixed := New([]string{"--kernels", "NoSuchKernel", "Stream_DOT"})
	assert.Equal(t, GoodToRun, mixed.InputState())
	assert.Equal(t, []string{"NoSuchKernel"}, mixed.InvalidKernelInput())
	assert.Equal(t, []string{"Stream_DOT"}, mixed.KernelInput())
	assert.Equal(t, []suite.KernelID{suite.Stream_DOT}, mixed.KernelIDs())
}

func TestParsingContinuesPastMalformedNumbers(t *testing.T) {
	t.Parallel()

	rp := New([]string{"--npasses", "x", "-k", "Bogus1", "Stream_ADD", "-k", "Bogus2", "--sampfrac", "y"})
	require.Equal(t, BadInput, rp.InputState())
	assert.Equal(t, []string{"Bogus1", "Bogus2"}, rp.InvalidKernelInput())
	assert.Equal(t, []string{"Stream_ADD"}, rp.KernelInput())

	errs := strings.Join(rp.Errors(), "\n")
	assert.Contains(t, errs, "--npasses")
	assert.Contains(t, errs, "--sampfrac")
}

func TestNumericDiagnostics(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"negative passes", []string{"--npasses", "-1"}, "--npasses=-1 must be >= 1"},
		{"negative fraction", []string{"--sizefrac", "-0.5"}, "--sizefrac=-0.5 must be > 0"},
		{"infinite tolerance", []string{"--tolerance=Inf"}, "--tolerance=+Inf must be < 1"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rp := New(tc.args)
			require.Equal(t, BadInput, rp.InputState())
			errs := strings.Join(rp.Errors(), "\n")
			assert.Contains(t, errs, tc.want)
			assert.NotContains(t, errs, "needs an argument")
			assert.NotContains(t, errs, "unknown option")
		})
	}
}

func TestSelectorForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want []suite.KernelID
	}{
		{"space separated run", []string{"-k", "Stream_DOT", "Lcals"}, []suite.KernelID{
			suite.Lcals_HYDRO_1D, suite.Lcals_EOS, suite.Lcals_FIRST_DIFF, suite.Stream_DOT,
		}},
		{"comma separated", []string{"--kernels=Stream_ADD,Stream_COPY"}, []suite.KernelID{
			suite.Stream_COPY, suite.Stream_ADD,
		}},
		{"repeated flag", []string{"-k", "TRIAD", "--kernels", "Apps_FIR"}, []suite.KernelID{
			suite.Stream_TRIAD, suite.Apps_FIR,
		}},
		{"duplicates collapse", []string{"-k", "Stream", "Stream_DOT", "DOT"}, suite.KernelsInGroup(suite.Stream)},
		{"attached shorthand run", []string{"-kStream_DOT", "Lcals_EOS"}, []suite.KernelID{
			suite.Lcals_EOS, suite.Stream_DOT,
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rp := New(tc.args)
			require.Equal(t, GoodToRun, rp.InputState(), "errors: %v", rp.Errors())
			assert.Equal(t, tc.want, rp.KernelIDs())
		})
	}
}

func TestVariantSelection(t *testing.T) {
	t.Parallel()

	rp := New([]string{"-v", "RAJA_Seq", "Base_Seq", "Nope", "-rv", "RAJA_Seq"})
	require.Equal(t, GoodToRun, rp.InputState())
	assert.Equal(t, []suite.VariantID{suite.Base_Seq, suite.RAJA_Seq}, rp.VariantIDs())
	assert.Equal(t, []string{"Nope"}, rp.InvalidVariantInput())

	ref, ok := rp.ReferenceVariantID()
	require.True(t, ok)
	assert.Equal(t, suite.RAJA_Seq, ref)
}

func TestRunSizeScaling(t *testing.T) {
	t.Parallel()

	half := New([]string{"--sizefrac", "0.5", "--sampfrac", "0.25"})
	require.Equal(t, GoodToRun, half.InputState())
	assert.Equal(t, 500000, half.RunSize(1000000))
	assert.Equal(t, 50, half.RunSize(101)) // truncated
	assert.Equal(t, 1, half.RunSize(1))    // never below one
	assert.Equal(t, 250, half.RunReps(1000))

	full := New(nil)
	assert.Equal(t, 1000000, full.RunSize(1000000))
}

func TestPrintManifest(t *testing.T) {
	t.Parallel()

	rp := New([]string{"--npasses", "3", "-k", "Stream_DOT", "Junk", "-od", "/tmp/out", "-of", "nightly"})
	require.Equal(t, GoodToRun, rp.InputState())

	var buf bytes.Buffer
	require.NoError(t, rp.Print(&buf))

	var m Manifest
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "GoodToRun", m.InputState)
	assert.Equal(t, 3, m.NumPasses)
	assert.Equal(t, "/tmp/out", m.OutputDir)
	assert.Equal(t, "nightly", m.OutputFilePrefix)
	assert.Equal(t, []string{"Stream_DOT"}, m.KernelInput)
	assert.Equal(t, []string{"Junk"}, m.InvalidKernelInput)
	assert.Contains(t, m.Backends, "seq")
}

func TestPrintInfo(t *testing.T) {
	t.Parallel()

	rp := New([]string{"-h", "-pfk", "-pv"})
	require.Equal(t, InfoRequest, rp.InputState())
	assert.Equal(t, []InfoKind{InfoHelp, InfoFullKernels, InfoVariants}, rp.InfoRequests())

	var buf bytes.Buffer
	rp.PrintInfo(&buf)
	out := buf.String()
	assert.Contains(t, out, "--kernels")
	assert.Contains(t, out, "Stream_DOT")
	assert.Contains(t, out, "Base_Seq")
}
