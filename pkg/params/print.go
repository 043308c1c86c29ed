package params

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Manifest is the serialized form of a RunParams, written alongside
// results so a run can be reproduced.
type Manifest struct {
	InputState          string   `yaml:"input_state"`
	NumPasses           int      `yaml:"npasses"`
	SampleFraction      float64  `yaml:"sample_fraction"`
	SizeFraction        float64  `yaml:"size_fraction"`
	Tolerance           float64  `yaml:"checksum_tolerance"`
	ReferenceVariant    string   `yaml:"reference_variant"`
	OutputDir           string   `yaml:"output_dir"`
	OutputFilePrefix    string   `yaml:"output_file_prefix"`
	KernelInput         []string `yaml:"kernel_input"`
	InvalidKernelInput  []string `yaml:"invalid_kernel_input"`
	VariantInput        []string `yaml:"variant_input"`
	InvalidVariantInput []string `yaml:"invalid_variant_input"`
	Backends            []string `yaml:"backends"`
	Errors              []string `yaml:"errors,omitempty"`
}

// Manifest returns the resolved configuration as a Manifest.
func (rp *RunParams) Manifest() Manifest {
	return Manifest{
		InputState:          rp.state.String(),
		NumPasses:           rp.opts.NumPasses,
		SampleFraction:      rp.opts.SampleFraction,
		SizeFraction:        rp.opts.SizeFraction,
		Tolerance:           rp.opts.Tolerance,
		ReferenceVariant:    rp.refVariant,
		OutputDir:           rp.outDir,
		OutputFilePrefix:    rp.outFilePrefix,
		KernelInput:         nonNil(rp.kernelInput),
		InvalidKernelInput:  nonNil(rp.invalidKernelInput),
		VariantInput:        nonNil(rp.variantInput),
		InvalidVariantInput: nonNil(rp.invalidVariantInput),
		Backends:            suite.Backends(),
		Errors:              rp.Errors(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Print writes the full resolved configuration to w as YAML.
func (rp *RunParams) Print(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rp.Manifest()); err != nil {
		return fmt.Errorf("encode run params: %w", err)
	}
	return enc.Close()
}

// PrintInfo writes every informational output that was requested.
func (rp *RunParams) PrintInfo(w io.Writer) {
	for _, kind := range rp.info {
		switch kind {
		case InfoHelp:
			rp.PrintHelp(w)
		case InfoKernels:
			PrintKernelNames(w)
		case InfoFullKernels:
			PrintFullKernelNames(w)
		case InfoVariants:
			PrintVariantNames(w)
		case InfoGroups:
			PrintGroupNames(w)
		}
		fmt.Fprintln(w)
	}
}

// PrintHelp writes usage for every option.
func (rp *RunParams) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: perfsuite [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, rp.flags.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  perfsuite -k Stream_DOT -v Base_Seq RAJA_Seq")
	fmt.Fprintln(w, "  perfsuite -k Polybench --npasses 3 --sizefrac 0.5")
	fmt.Fprintln(w, "  perfsuite --dryrun -k Basic -rv RAJA_Seq")
}

// PrintKernelNames writes short kernel names grouped by group.
func PrintKernelNames(w io.Writer) {
	fmt.Fprintln(w, "Available kernels (<group>/<kernel>):")
	fmt.Fprintln(w, strings.Repeat("-", 37))
	for _, g := range suite.Groups() {
		fmt.Fprintln(w, suite.GroupName(g))
		for _, k := range suite.KernelsInGroup(g) {
			fmt.Fprintf(w, "  %s\n", suite.KernelName(k))
		}
	}
}

// PrintFullKernelNames writes <group>_<kernel> names, one per line.
func PrintFullKernelNames(w io.Writer) {
	fmt.Fprintln(w, "Available kernels (<group>_<kernel>):")
	fmt.Fprintln(w, strings.Repeat("-", 37))
	for _, k := range suite.Kernels() {
		fmt.Fprintln(w, suite.FullKernelName(k))
	}
}

// PrintVariantNames writes the variants this binary can run.
func PrintVariantNames(w io.Writer) {
	fmt.Fprintln(w, "Available variants:")
	fmt.Fprintln(w, strings.Repeat("-", 19))
	for _, v := range suite.SupportedVariants() {
		fmt.Fprintln(w, suite.VariantName(v))
	}
}

// PrintGroupNames writes the kernel group names.
func PrintGroupNames(w io.Writer) {
	fmt.Fprintln(w, "Kernel groups:")
	fmt.Fprintln(w, strings.Repeat("-", 14))
	for _, g := range suite.Groups() {
		fmt.Fprintln(w, suite.GroupName(g))
	}
}
