// Package executor is the suite driver: it builds the kernels a run
// selects, executes every selected variant for the configured number of
// passes, compares each variant's checksum against the reference variant
// and hands the result to the configured reporters.
//
// The driver itself is sequential. Parallelism lives inside the kernel
// bodies and is joined before a body returns.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/kernels"
	"github.com/justin-oleary/perfsuite/pkg/metrics"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
	"github.com/justin-oleary/perfsuite/pkg/team"
)

// Reporter receives the result of a completed run.
type Reporter interface {
	Report(ctx context.Context, res *RunResult) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, res *RunResult) error

func (f ReporterFunc) Report(ctx context.Context, res *RunResult) error { return f(ctx, res) }

// Plan is what a run would execute.
type Plan struct {
	Kernels  []suite.KernelID
	Variants []suite.VariantID
	// Unsupported lists selected variants this binary cannot run.
	Unsupported []suite.VariantID
	Reference   suite.VariantID
	NumPasses   int
}

// Executor drives one suite run.
type Executor struct {
	rp        *params.RunParams
	factory   kernels.Factory
	clock     func() time.Time
	team      *team.Team
	logger    *slog.Logger
	reporters []Reporter
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *slog.Logger) Option { return func(e *Executor) { e.logger = l } }

// WithFactory replaces the kernel factory.
func WithFactory(f kernels.Factory) Option { return func(e *Executor) { e.factory = f } }

// WithClock sets the time source for run timestamps and kernel timers.
func WithClock(clock func() time.Time) Option { return func(e *Executor) { e.clock = clock } }

// WithTeam sets the worker team handed to every kernel.
func WithTeam(t *team.Team) Option { return func(e *Executor) { e.team = t } }

// WithReporters appends reporters, called in order after the run.
func WithReporters(r ...Reporter) Option {
	return func(e *Executor) { e.reporters = append(e.reporters, r...) }
}

// New returns an executor for rp.
func New(rp *params.RunParams, opts ...Option) *Executor {
	e := &Executor{
		rp:      rp,
		factory: kernels.New,
		clock:   time.Now,
		team:    team.Default(),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Plan resolves the kernel and variant sets without running anything.
func (e *Executor) Plan() Plan {
	p := Plan{NumPasses: e.rp.NumPasses()}

	p.Kernels = e.rp.KernelIDs()
	if len(p.Kernels) == 0 {
		p.Kernels = suite.Kernels()
	}

	selected := e.rp.VariantIDs()
	if len(selected) == 0 {
		selected = suite.AllVariants()
	}
	for _, v := range selected {
		if suite.IsSupported(v) {
			p.Variants = append(p.Variants, v)
		} else {
			p.Unsupported = append(p.Unsupported, v)
		}
	}

	p.Reference, _ = e.rp.ReferenceVariantID()
	return p
}

// Run executes the plan. It returns ErrNotRunnable unless the
// configuration is GoodToRun and the plan has at least one variant. Cancellation is checked between kernels; a
// cancelled run returns the kernels completed so far together with the
// context error. Correctness warnings are carried in the result, not
// returned as errors.
func (e *Executor) Run(ctx context.Context) (*RunResult, error) {
	if s := e.rp.InputState(); s != params.GoodToRun {
		return nil, fmt.Errorf("%w: input state %s", ErrNotRunnable, s)
	}

	plan := e.Plan()
	if len(plan.Unsupported) > 0 {
		e.logger.Warn("skipping variants not built into this binary",
			"variants", variantNames(plan.Unsupported))
	}
	if len(plan.Variants) == 0 {
		return nil, fmt.Errorf("%w: none of the selected variants %v is built into this binary",
			ErrNotRunnable, variantNames(plan.Unsupported))
	}

	res := &RunResult{
		ID:        uuid.NewString(),
		Start:     e.clock(),
		NumPasses: plan.NumPasses,
		Tolerance: e.rp.Tolerance(),
	}
	e.logger.Info("suite run starting",
		"run_id", res.ID,
		"kernels", len(plan.Kernels),
		"variants", variantNames(plan.Variants),
		"npasses", plan.NumPasses,
		"reference", suite.VariantName(plan.Reference),
	)

	for _, kid := range plan.Kernels {
		if err := ctx.Err(); err != nil {
			res.End = e.clock()
			return res, err
		}
		res.Kernels = append(res.Kernels, e.runKernel(kid, plan, res.Tolerance))
	}
	res.End = e.clock()

	e.logger.Info("suite run complete",
		"run_id", res.ID,
		"elapsed", res.End.Sub(res.Start),
		"warnings", len(res.Warnings()),
		"failures", len(res.Failures()),
	)

	var errs []error
	for _, r := range e.reporters {
		if err := r.Report(ctx, res); err != nil {
			errs = append(errs, fmt.Errorf("report run %s: %w", res.ID, err))
		}
	}
	return res, errors.Join(errs...)
}

func (e *Executor) runKernel(kid suite.KernelID, plan Plan, tol float64) KernelResult {
	k := e.factory(kid, e.rp)
	core := k.Core()
	core.SetClock(e.clock)
	core.SetTeam(e.team)
	core.SetLogger(e.logger)

	for _, vid := range plan.Variants {
		for pass := 0; pass < plan.NumPasses; pass++ {
			res := kernel.Execute(k, vid)
			if res.Status == kernel.NotApplicable {
				// nothing changes on later passes
				break
			}
		}
	}

	kr := KernelResult{
		Kernel:    kid,
		RunSize:   k.RunSize(),
		RunReps:   k.RunReps(),
		Reference: plan.Reference,
	}
	for _, vid := range plan.Variants {
		r := k.Result(vid)
		kr.Variants = append(kr.Variants, VariantResult{
			Variant:  vid,
			Status:   r.Status,
			Elapsed:  r.Elapsed,
			Passes:   r.Passes,
			Checksum: k.Checksum(vid),
			Err:      r.Err,
		})
		e.observe(kr.Name(), vid, r)
	}

	e.compare(&kr, tol)
	return kr
}

// compare checks every variant that ran against the reference checksum.
func (e *Executor) compare(kr *KernelResult, tol float64) {
	ref, ok := kr.Variant(kr.Reference)
	if !ok || ref.Status != kernel.Ran {
		kr.Warning = fmt.Errorf("%s: %w (%s)", kr.Name(), ErrReferenceMissing, suite.VariantName(kr.Reference))
		metrics.CorrectnessWarnings.WithLabelValues("reference_missing").Inc()
		e.logger.Warn("skipping checksum comparison",
			"kernel", kr.Name(),
			"reference", suite.VariantName(kr.Reference),
			"err", kr.Warning,
		)
		return
	}
	kr.ReferenceChecksum = ref.Checksum

	for i := range kr.Variants {
		v := &kr.Variants[i]
		if v.Variant == kr.Reference || v.Status != kernel.Ran {
			continue
		}
		v.Delta = RelativeDelta(v.Checksum, ref.Checksum)
		v.Compared = true
		metrics.ChecksumDelta.WithLabelValues(kr.Name(), suite.VariantName(v.Variant)).Set(v.Delta)
		if v.Delta <= tol {
			continue
		}
		d := newChecksumDeviation(kr.Name(), suite.VariantName(v.Variant), suite.VariantName(kr.Reference), v.Delta, tol)
		v.Warning = d
		metrics.CorrectnessWarnings.WithLabelValues("checksum_mismatch").Inc()
		e.logger.Warn("checksum mismatch",
			"kernel", d.Kernel,
			"variant", d.Variant,
			"reference", d.Reference,
			"checksum", v.Checksum,
			"reference_checksum", ref.Checksum,
			"delta", d.MeasuredValue,
			"tolerance", d.ThresholdValue,
		)
	}
}

func (e *Executor) observe(name string, vid suite.VariantID, r kernel.Result) {
	metrics.VariantOutcomes.WithLabelValues(r.Status.String()).Inc()
	h := metrics.KernelDuration.WithLabelValues(name, suite.VariantName(vid))
	for _, d := range r.Passes {
		h.Observe(d.Seconds())
	}
}

// RelativeDelta is |got-want|/|want|, or |got| when want is zero.
func RelativeDelta(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func variantNames(vs []suite.VariantID) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, suite.VariantName(v))
	}
	return out
}
