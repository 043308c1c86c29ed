// Package suite defines the closed set of kernel groups, kernels and
// execution variants that make up the performance suite, and maps them to
// and from their canonical names.
//
// Kernel names have the form <group>_<kernel>, e.g. "Stream_DOT". The short
// name drops the group prefix ("DOT").
package suite

import "fmt"

// GroupID identifies a thematic family of kernels.
type GroupID int

const (
	Basic GroupID = iota
	Lcals
	Polybench
	Stream
	Apps

	NumGroups // sentinel, never a valid group
)

// KernelID identifies one kernel. Values are ordered by group, then by
// kernel within the group.
type KernelID int

const (
	Basic_MULADDSUB KernelID = iota
	Basic_IF_QUAD
	Basic_TRAP_INT
	Basic_INIT3
	Basic_REDUCE3_INT
	Basic_NESTED_INIT

	Lcals_HYDRO_1D
	Lcals_EOS
	Lcals_FIRST_DIFF

	Polybench_2MM
	Polybench_3MM
	Polybench_GEMMVER

	Stream_COPY
	Stream_MUL
	Stream_ADD
	Stream_TRIAD
	Stream_DOT

	Apps_PRESSURE
	Apps_ENERGY
	Apps_FIR

	NumKernels // sentinel, never a valid kernel
)

// VariantID identifies an execution strategy. NumVariants is also the size
// of every per-variant array in the suite. Whether a variant can actually
// run in this binary is decided by SupportedVariants.
type VariantID int

const (
	Base_Seq VariantID = iota
	RAJA_Seq
	Base_OpenMP
	RAJALike_OpenMP
	RAJA_OpenMP
	Base_CUDA
	RAJA_CUDA

	NumVariants // sentinel, never a valid variant
)

var groupNames = [NumGroups]string{
	Basic:     "Basic",
	Lcals:     "Lcals",
	Polybench: "Polybench",
	Stream:    "Stream",
	Apps:      "Apps",
}

type kernelEntry struct {
	group GroupID
	short string
}

var kernelTable = [NumKernels]kernelEntry{
	Basic_MULADDSUB:   {Basic, "MULADDSUB"},
	Basic_IF_QUAD:     {Basic, "IF_QUAD"},
	Basic_TRAP_INT:    {Basic, "TRAP_INT"},
	Basic_INIT3:       {Basic, "INIT3"},
	Basic_REDUCE3_INT: {Basic, "REDUCE3_INT"},
	Basic_NESTED_INIT: {Basic, "NESTED_INIT"},

	Lcals_HYDRO_1D:   {Lcals, "HYDRO_1D"},
	Lcals_EOS:        {Lcals, "EOS"},
	Lcals_FIRST_DIFF: {Lcals, "FIRST_DIFF"},

	Polybench_2MM:     {Polybench, "2MM"},
	Polybench_3MM:     {Polybench, "3MM"},
	Polybench_GEMMVER: {Polybench, "GEMMVER"},

	Stream_COPY:  {Stream, "COPY"},
	Stream_MUL:   {Stream, "MUL"},
	Stream_ADD:   {Stream, "ADD"},
	Stream_TRIAD: {Stream, "TRIAD"},
	Stream_DOT:   {Stream, "DOT"},

	Apps_PRESSURE: {Apps, "PRESSURE"},
	Apps_ENERGY:   {Apps, "ENERGY"},
	Apps_FIR:      {Apps, "FIR"},
}

var variantNames = [NumVariants]string{
	Base_Seq:        "Base_Seq",
	RAJA_Seq:        "RAJA_Seq",
	Base_OpenMP:     "Base_OpenMP",
	RAJALike_OpenMP: "RAJALike_OpenMP",
	RAJA_OpenMP:     "RAJA_OpenMP",
	Base_CUDA:       "Base_CUDA",
	RAJA_CUDA:       "RAJA_CUDA",
}

// full kernel names are built once so FullKernelName can hand out the same
// string for the life of the process.
var fullKernelNames = func() [NumKernels]string {
	var names [NumKernels]string
	for k, e := range kernelTable {
		names[k] = groupNames[e.group] + "_" + e.short
	}
	return names
}()

// Valid reports whether g is a real group (not the sentinel).
func (g GroupID) Valid() bool { return g >= 0 && g < NumGroups }

// Valid reports whether k is a real kernel (not the sentinel).
func (k KernelID) Valid() bool { return k >= 0 && k < NumKernels }

// Valid reports whether v is a real variant (not the sentinel).
func (v VariantID) Valid() bool { return v >= 0 && v < NumVariants }

func (g GroupID) String() string {
	if !g.Valid() {
		return fmt.Sprintf("GroupID(%d)", int(g))
	}
	return groupNames[g]
}

func (k KernelID) String() string {
	if !k.Valid() {
		return fmt.Sprintf("KernelID(%d)", int(k))
	}
	return fullKernelNames[k]
}

func (v VariantID) String() string {
	if !v.Valid() {
		return fmt.Sprintf("VariantID(%d)", int(v))
	}
	return variantNames[v]
}

// GroupName returns the name of g. It panics on the NumGroups sentinel or
// any other out-of-range value.
func GroupName(g GroupID) string {
	if !g.Valid() {
		panic(fmt.Sprintf("suite: invalid group id %d", int(g)))
	}
	return groupNames[g]
}

// KernelName returns the short name of k, i.e. the full name without the
// group prefix.
func KernelName(k KernelID) string {
	mustKernel(k)
	return kernelTable[k].short
}

// FullKernelName returns <group>_<kernel> for k.
func FullKernelName(k KernelID) string {
	mustKernel(k)
	return fullKernelNames[k]
}

// VariantName returns the name of v.
func VariantName(v VariantID) string {
	if !v.Valid() {
		panic(fmt.Sprintf("suite: invalid variant id %d", int(v)))
	}
	return variantNames[v]
}

// GroupOf returns the group k belongs to.
func GroupOf(k KernelID) GroupID {
	mustKernel(k)
	return kernelTable[k].group
}

func mustKernel(k KernelID) {
	if !k.Valid() {
		panic(fmt.Sprintf("suite: invalid kernel id %d", int(k)))
	}
}

// Groups returns every group in enumeration order.
func Groups() []GroupID {
	out := make([]GroupID, 0, NumGroups)
	for g := GroupID(0); g < NumGroups; g++ {
		out = append(out, g)
	}
	return out
}

// Kernels returns every kernel in enumeration order.
func Kernels() []KernelID {
	out := make([]KernelID, 0, NumKernels)
	for k := KernelID(0); k < NumKernels; k++ {
		out = append(out, k)
	}
	return out
}

// KernelsInGroup returns the kernels of g in enumeration order.
func KernelsInGroup(g GroupID) []KernelID {
	GroupName(g) // range check
	var out []KernelID
	for k := KernelID(0); k < NumKernels; k++ {
		if kernelTable[k].group == g {
			out = append(out, k)
		}
	}
	return out
}

// AllVariants returns the full closed variant enumeration, including
// variants this binary cannot run.
func AllVariants() []VariantID {
	out := make([]VariantID, 0, NumVariants)
	for v := VariantID(0); v < NumVariants; v++ {
		out = append(out, v)
	}
	return out
}
