// Package report renders a completed suite run: a JSON results document, a
// YAML run manifest, a Prometheus textfile and a human-readable summary
// table.
package report

import (
	"errors"
	"time"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Verdicts used in Summary.Verdict.
const (
	VerdictPass        = "PASS"
	VerdictMismatch    = "CHECKSUM_MISMATCH"
	VerdictFailed      = "FAILED"
	VerdictNoReference = "NO_REFERENCE"
)

// VariantReport is one variant of one kernel. Verdict is "pass" or
// "mismatch" for compared variants, "reference" for the reference and
// empty otherwise.
type VariantReport struct {
	Variant        string    `json:"variant"`
	Status         string    `json:"status"` // "ran" | "n/a" | "failed"
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	PassSeconds    []float64 `json:"pass_seconds,omitempty"`
	Checksum       float64   `json:"checksum"`
	RelativeDelta  *float64  `json:"relative_delta,omitempty"`
	Verdict        string    `json:"verdict,omitempty"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	MeasuredValue  float64   `json:"measured_value,omitempty"`
	ThresholdValue float64   `json:"threshold_value,omitempty"`
}

// KernelReport is one kernel with all of its selected variants.
type KernelReport struct {
	Kernel            string          `json:"kernel"`
	Group             string          `json:"group"`
	RunSize           int             `json:"run_size"`
	RunReps           int             `json:"run_reps"`
	Reference         string          `json:"reference_variant"`
	ReferenceChecksum float64         `json:"reference_checksum"`
	Verified          bool            `json:"verified"`
	Warning           string          `json:"warning,omitempty"`
	Variants          []VariantReport `json:"variants"`
}

// Summary aggregates the run into a top-level verdict.
type Summary struct {
	Kernels       int    `json:"kernels"`
	Ran           int    `json:"variants_ran"`
	NotApplicable int    `json:"variants_not_applicable"`
	Failed        int    `json:"variants_failed"`
	Mismatches    int    `json:"checksum_mismatches"`
	Unverified    int    `json:"kernels_unverified"`
	Warnings      int    `json:"warnings"`
	Verdict       string `json:"verdict"`
}

// Results is the JSON results document.
type Results struct {
	RunID     string         `json:"run_id"`
	Timestamp string         `json:"timestamp"`
	Elapsed   float64        `json:"elapsed_seconds"`
	NumPasses int            `json:"npasses"`
	Tolerance float64        `json:"checksum_tolerance"`
	Host      Host           `json:"host"`
	Kernels   []KernelReport `json:"kernels"`
	Summary   Summary        `json:"summary"`
}

// Build converts a run result into its JSON document.
func Build(res *executor.RunResult, host Host) Results {
	r := Results{
		RunID:     res.ID,
		Timestamp: res.Start.UTC().Format(time.RFC3339),
		Elapsed:   res.End.Sub(res.Start).Seconds(),
		NumPasses: res.NumPasses,
		Tolerance: res.Tolerance,
		Host:      host,
		Kernels:   make([]KernelReport, 0, len(res.Kernels)),
	}
	for _, kr := range res.Kernels {
		r.Kernels = append(r.Kernels, buildKernel(kr))
	}
	r.Summary = summarize(r.Kernels)
	return r
}

func buildKernel(kr executor.KernelResult) KernelReport {
	out := KernelReport{
		Kernel:            kr.Name(),
		Group:             suite.GroupName(suite.GroupOf(kr.Kernel)),
		RunSize:           kr.RunSize,
		RunReps:           kr.RunReps,
		Reference:         suite.VariantName(kr.Reference),
		ReferenceChecksum: kr.ReferenceChecksum,
		Verified:          !kr.ReferenceMissing(),
		Variants:          make([]VariantReport, 0, len(kr.Variants)),
	}
	if kr.Warning != nil {
		out.Warning = kr.Warning.Error()
	}
	for _, v := range kr.Variants {
		out.Variants = append(out.Variants, buildVariant(kr, v))
	}
	return out
}

func buildVariant(kr executor.KernelResult, v executor.VariantResult) VariantReport {
	out := VariantReport{
		Variant:        suite.VariantName(v.Variant),
		Status:         v.Status.String(),
		ElapsedSeconds: v.Elapsed.Seconds(),
		Checksum:       v.Checksum,
	}
	for _, d := range v.Passes {
		out.PassSeconds = append(out.PassSeconds, d.Seconds())
	}
	switch {
	case v.Variant == kr.Reference && v.Status == kernel.Ran:
		out.Verdict = "reference"
	case v.Compared && v.Warning != nil:
		out.Verdict = "mismatch"
	case v.Compared:
		out.Verdict = "pass"
	}
	if v.Compared {
		delta := v.Delta
		out.RelativeDelta = &delta
	}
	if v.Status == kernel.Failed && v.Err != nil {
		out.FailureReason = v.Err.Error()
	}
	if v.Warning != nil {
		out.FailureReason = v.Warning.Error()
		var detail *executor.ChecksumDeviation
		if errors.As(v.Warning, &detail) {
			out.MeasuredValue = detail.MeasuredValue
			out.ThresholdValue = detail.ThresholdValue
		}
	}
	return out
}

func summarize(kernels []KernelReport) Summary {
	s := Summary{Kernels: len(kernels)}
	for _, k := range kernels {
		if k.Warning != "" {
			s.Warnings++
		}
		if !k.Verified {
			s.Unverified++
		}
		for _, v := range k.Variants {
			switch v.Status {
			case kernel.Ran.String():
				s.Ran++
			case kernel.NotApplicable.String():
				s.NotApplicable++
			case kernel.Failed.String():
				s.Failed++
			}
			if v.Verdict == "mismatch" {
				s.Mismatches++
				s.Warnings++
			}
		}
	}
	switch {
	case s.Failed > 0:
		s.Verdict = VerdictFailed
	case s.Mismatches > 0:
		s.Verdict = VerdictMismatch
	case s.Unverified > 0:
		s.Verdict = VerdictNoReference
	default:
		s.Verdict = VerdictPass
	}
	return s
}
