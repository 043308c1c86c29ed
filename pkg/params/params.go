// Package params turns the suite's command line into a validated,
// read-only run configuration.
//
// Construction never aborts early: every unresolvable kernel or variant
// token is collected so that all of them can be reported together, and
// the outcome is summarized by InputState.
package params

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// InputState summarizes what the command line asked for.
type InputState int

const (
	InfoRequest InputState = iota // informational output only
	DryRun                        // resolve and print the run, do not execute
	GoodToRun                     // valid configuration
	BadInput                      // terminal, no run is attempted
	Undefined                     // not yet determined
)

func (s InputState) String() string {
	switch s {
	case InfoRequest:
		return "InfoRequest"
	case DryRun:
		return "DryRun"
	case GoodToRun:
		return "GoodToRun"
	case BadInput:
		return "BadInput"
	default:
		return "Undefined"
	}
}

// InfoKind is one informational request from the command line.
type InfoKind int

const (
	InfoHelp InfoKind = iota
	InfoKernels
	InfoFullKernels
	InfoVariants
	InfoGroups
)

// numericOptions holds the bounded numeric settings. Field bounds are
// enforced with validator tags; the flag tag names the option in messages.
type numericOptions struct {
	NumPasses      int     `flag:"npasses" validate:"gte=1"`
	SampleFraction float64 `flag:"sampfrac" validate:"gt=0,lte=1"`
	SizeFraction   float64 `flag:"sizefrac" validate:"gt=0,lte=1"`
	Tolerance      float64 `flag:"tolerance" validate:"gt=0,lt=1"`
}

// RunParams is the resolved run configuration. It is built once by New and
// only read afterwards.
type RunParams struct {
	state InputState
	info  []InfoKind

	opts numericOptions

	refVariant    string
	outDir        string
	outFilePrefix string

	kernelInput         []string
	invalidKernelInput  []string
	variantInput        []string
	invalidVariantInput []string

	kernelIDs  []suite.KernelID
	variantIDs []suite.VariantID

	errs  []string
	flags *pflag.FlagSet
}

// New parses args (without the program name) into a RunParams. It reads
// nothing but args and a few PERFSUITE_* environment defaults.
func New(args []string) *RunParams {
	rp := &RunParams{
		state: Undefined,
		opts: numericOptions{
			NumPasses:      defaultNumPasses,
			SampleFraction: defaultSampleFrac,
			SizeFraction:   defaultSizeFrac,
			Tolerance:      defaultTolerance,
		},
		refVariant:    defaultRefVariant,
		outDir:        defaultOutDir,
		outFilePrefix: defaultOutFilePrefix,
	}

	var (
		help, printKernels, printFull, printVariants, printGroups bool
		dryRun                                                    bool
		kernelTokens, variantTokens                               []string
	)

	fs := pflag.NewFlagSet("perfsuite", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&help, "help", "h", false, "print this message")
	fs.BoolVar(&printKernels, "print-kernels", false, "print names of available kernels (alias -pk)")
	fs.BoolVar(&printFull, "print-full-kernels", false, "print full names of available kernels (alias -pfk)")
	fs.BoolVar(&printVariants, "print-variants", false, "print names of available variants (alias -pv)")
	fs.BoolVar(&printGroups, "print-groups", false, "print names of kernel groups (alias -pg)")
	fs.BoolVar(&dryRun, "dryrun", false, "resolve and print the run without executing kernels")

	fs.Var(rp.intValue(&rp.opts.NumPasses, "npasses"), "npasses", "number of passes through the suite")
	fs.Var(rp.floatValue(&rp.opts.SampleFraction, "sampfrac"), "sampfrac", "fraction of default kernel repetitions to run, in (0, 1]")
	fs.Var(rp.floatValue(&rp.opts.SizeFraction, "sizefrac"), "sizefrac", "fraction of default kernel problem size to run, in (0, 1]")
	fs.Var(rp.floatValue(&rp.opts.Tolerance, "tolerance"), "tolerance", "relative checksum deviation from the reference variant tolerated, in (0, 1)")
	fs.StringVar(&rp.outDir, "outdir", rp.outDir, "output directory (alias -od)")
	fs.StringVar(&rp.outFilePrefix, "outfile", rp.outFilePrefix, "output file name prefix (alias -of)")
	fs.StringVar(&rp.refVariant, "refvar", rp.refVariant, "reference variant for checksum comparison (alias -rv)")
	fs.StringSliceVarP(&kernelTokens, "kernels", "k", nil, "kernels to run: group, kernel or full kernel names")
	fs.StringSliceVarP(&variantTokens, "variants", "v", nil, "variants to run")

	rp.flags = fs

	expanded, unknown := expandArgs(fs, args)
	if err := fs.Parse(expanded); err != nil {
		rp.errs = append(rp.errs, err.Error())
	}

	if help {
		rp.info = append(rp.info, InfoHelp)
	}
	if printKernels {
		rp.info = append(rp.info, InfoKernels)
	}
	if printFull {
		rp.info = append(rp.info, InfoFullKernels)
	}
	if printVariants {
		rp.info = append(rp.info, InfoVariants)
	}
	if printGroups {
		rp.info = append(rp.info, InfoGroups)
	}
	if len(rp.info) > 0 {
		rp.state = InfoRequest
		return rp
	}

	for _, u := range unknown {
		rp.errs = append(rp.errs, fmt.Sprintf("unknown option %q", u))
	}
	for _, a := range fs.Args() {
		rp.errs = append(rp.errs, fmt.Sprintf("unexpected argument %q", a))
	}
	rp.errs = append(rp.errs, validateNumeric(rp.opts)...)

	if _, ok := suite.ResolveVariant(rp.refVariant); !ok {
		rp.errs = append(rp.errs, fmt.Sprintf("unknown reference variant %q", rp.refVariant))
	}

	rp.resolveKernels(kernelTokens)
	rp.resolveVariants(variantTokens)

	switch {
	case len(rp.errs) > 0:
		rp.state = BadInput
	case len(rp.kernelInput) == 0 && len(rp.invalidKernelInput) > 0:
		rp.state = BadInput
	case len(rp.variantInput) == 0 && len(rp.invalidVariantInput) > 0:
		rp.state = BadInput
	case dryRun:
		rp.state = DryRun
	default:
		rp.state = GoodToRun
	}
	return rp
}

func (rp *RunParams) resolveKernels(tokens []string) {
	var selected [suite.NumKernels]bool
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		ids, ok := suite.ResolveKernels(tok)
		if !ok {
			rp.invalidKernelInput = append(rp.invalidKernelInput, tok)
			continue
		}
		rp.kernelInput = append(rp.kernelInput, tok)
		for _, k := range ids {
			selected[k] = true
		}
	}
	for k, on := range selected {
		if on {
			rp.kernelIDs = append(rp.kernelIDs, suite.KernelID(k))
		}
	}
}

func (rp *RunParams) resolveVariants(tokens []string) {
	var selected [suite.NumVariants]bool
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, ok := suite.ResolveVariant(tok)
		if !ok {
			rp.invalidVariantInput = append(rp.invalidVariantInput, tok)
			continue
		}
		rp.variantInput = append(rp.variantInput, tok)
		selected[v] = true
	}
	for v, on := range selected {
		if on {
			rp.variantIDs = append(rp.variantIDs, suite.VariantID(v))
		}
	}
}

// InputState reports the outcome of parsing.
func (rp *RunParams) InputState() InputState { return rp.state }

// InfoRequests lists the informational outputs asked for, in a fixed order.
func (rp *RunParams) InfoRequests() []InfoKind { return slices.Clone(rp.info) }

// Errors returns the diagnostics that made the input invalid.
func (rp *RunParams) Errors() []string { return slices.Clone(rp.errs) }

func (rp *RunParams) NumPasses() int           { return rp.opts.NumPasses }
func (rp *RunParams) SampleFraction() float64  { return rp.opts.SampleFraction }
func (rp *RunParams) SizeFraction() float64    { return rp.opts.SizeFraction }
func (rp *RunParams) Tolerance() float64       { return rp.opts.Tolerance }
func (rp *RunParams) ReferenceVariant() string { return rp.refVariant }
func (rp *RunParams) OutputDirName() string    { return rp.outDir }
func (rp *RunParams) OutputFilePrefix() string { return rp.outFilePrefix }

// ReferenceVariantID returns the id of the reference variant. ok is false
// only when the input state is BadInput.
func (rp *RunParams) ReferenceVariantID() (suite.VariantID, bool) {
	return suite.ResolveVariant(rp.refVariant)
}

func (rp *RunParams) KernelInput() []string         { return slices.Clone(rp.kernelInput) }
func (rp *RunParams) InvalidKernelInput() []string  { return slices.Clone(rp.invalidKernelInput) }
func (rp *RunParams) VariantInput() []string        { return slices.Clone(rp.variantInput) }
func (rp *RunParams) InvalidVariantInput() []string { return slices.Clone(rp.invalidVariantInput) }

// KernelIDs returns the kernels named by valid selector tokens, deduplicated
// and in enumeration order. Empty means no explicit selection.
func (rp *RunParams) KernelIDs() []suite.KernelID { return slices.Clone(rp.kernelIDs) }

// VariantIDs returns the variants named by valid selector tokens,
// deduplicated and in enumeration order. Empty means no explicit selection.
func (rp *RunParams) VariantIDs() []suite.VariantID { return slices.Clone(rp.variantIDs) }

// RunSize scales a kernel's default problem size by the size fraction.
// The product is truncated toward zero and never drops below 1.
func (rp *RunParams) RunSize(defaultSize int) int {
	return scale(defaultSize, rp.opts.SizeFraction)
}

// RunReps scales a kernel's default repetition count by the sample
// fraction, using the same rule as RunSize.
func (rp *RunParams) RunReps(defaultReps int) int {
	return scale(defaultReps, rp.opts.SampleFraction)
}

func scale(n int, frac float64) int {
	v := int(math.Trunc(frac * float64(n)))
	if v < 1 {
		return 1
	}
	return v
}
