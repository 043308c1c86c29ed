package suite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullKernelNameHasGroupPrefix(t *testing.T) {
	t.Parallel()

	for _, k := range Kernels() {
		full := FullKernelName(k)
		prefix := GroupName(GroupOf(k)) + "_"
		assert.True(t, strings.HasPrefix(full, prefix), "%s lacks prefix %s", full, prefix)
		assert.True(t, strings.HasSuffix(full, KernelName(k)), "%s lacks suffix %s", full, KernelName(k))
		assert.Equal(t, prefix+KernelName(k), full)
	}
}

func TestFullKernelNamesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]KernelID)
	for _, k := range Kernels() {
		name := FullKernelName(k)
		prev, dup := seen[name]
		require.False(t, dup, "%s used by %d and %d", name, prev, k)
		seen[name] = k
	}
	assert.Len(t, seen, int(NumKernels))
}

func TestVariantNamesNonEmptyAndUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, v := range AllVariants() {
		name := VariantName(v)
		require.NotEmpty(t, name)
		require.False(t, seen[name], "duplicate variant name %q", name)
		seen[name] = true
	}
}

func TestSentinelsPanic(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { GroupName(NumGroups) })
	assert.Panics(t, func() { KernelName(NumKernels) })
	assert.Panics(t, func() { FullKernelName(NumKernels) })
	assert.Panics(t, func() { VariantName(NumVariants) })
	assert.Panics(t, func() { GroupOf(-1) })

	// String must stay safe for formatting.
	assert.Equal(t, "KernelID(20)", NumKernels.String())
}

func TestResolveGroupToken(t *testing.T) {
	t.Parallel()

	for _, g := range Groups() {
		ids, ok := ResolveKernels(GroupName(g))
		require.True(t, ok, "group %s did not resolve", GroupName(g))

		var want []KernelID
		for _, k := range Kernels() {
			if GroupOf(k) == g {
				want = append(want, k)
			}
		}
		assert.Equal(t, want, ids)
	}
}

func TestResolveKernelRoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range Kernels() {
		ids, ok := ResolveKernels(FullKernelName(k))
		require.True(t, ok)
		assert.Equal(t, []KernelID{k}, ids)

		ids, ok = ResolveKernels(KernelName(k))
		require.True(t, ok, "short name %s did not resolve", KernelName(k))
		assert.Equal(t, []KernelID{k}, ids)
	}
}

func TestResolveUnknownTokens(t *testing.T) {
	t.Parallel()

	cases := []string{"NoSuchKernel", "", "stream_dot", "Stream_", "_DOT"}
	for _, tok := range cases {
		ids, ok := ResolveKernels(tok)
		assert.False(t, ok, "token %q", tok)
		assert.Nil(t, ids)
	}

	_, ok := ResolveVariant("Base_Fortran")
	assert.False(t, ok)
}

func TestResolveVariantRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range AllVariants() {
		got, ok := ResolveVariant(VariantName(v))
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestSupportedVariantsAlwaysIncludeSequential(t *testing.T) {
	t.Parallel()

	sv := SupportedVariants()
	require.NotEmpty(t, sv)
	assert.Equal(t, Base_Seq, sv[0])
	assert.Contains(t, sv, RAJA_Seq)
	for _, v := range sv {
		assert.True(t, IsSupported(v))
	}
	assert.False(t, IsSupported(NumVariants))
	assert.Equal(t, "seq", Backends()[0])
}
