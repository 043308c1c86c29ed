package kernel

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/suite"
	"github.com/justin-oleary/perfsuite/pkg/team"
)

// phase tracks where a variant is in its lifecycle.
type phase int

const (
	phaseIdle phase = iota
	phaseSetUp
	phaseRan
	phaseChecked
)

var phaseNames = [...]string{"idle", "set up", "ran", "checksummed"}

func (p phase) String() string { return phaseNames[p] }

// Body is one variant's implementation of a kernel. It must bracket its
// repetitions with StartTimer/StopTimer (or use Repeat) and must finish all
// parallel work before returning.
type Body func() error

// Base implements the kernel-independent part of the Kernel contract.
// Embed it as *Base.
type Base struct {
	id          suite.KernelID
	defaultSize int
	defaultReps int
	runSize     int
	runReps     int

	checksum [suite.NumVariants]float64
	results  [suite.NumVariants]Result
	phases   [suite.NumVariants]phase
	passStat [suite.NumVariants]Status

	timing     bool
	timerStart time.Time
	passTime   time.Duration

	clock  func() time.Time
	team   *team.Team
	logger *slog.Logger
}

// NewBase sizes a kernel from its defaults and the run parameters. It does
// not allocate problem-sized data.
func NewBase(id suite.KernelID, rp *params.RunParams, defaultSize, defaultReps int) *Base {
	suite.FullKernelName(id) // range check
	return &Base{
		id:          id,
		defaultSize: defaultSize,
		defaultReps: defaultReps,
		runSize:     rp.RunSize(defaultSize),
		runReps:     rp.RunReps(defaultReps),
		clock:       time.Now,
		team:        team.Default(),
		logger:      slog.Default(),
	}
}

func (b *Base) Core() *Base          { return b }
func (b *Base) ID() suite.KernelID   { return b.id }
func (b *Base) Name() string         { return suite.FullKernelName(b.id) }
func (b *Base) DefaultSize() int     { return b.defaultSize }
func (b *Base) DefaultReps() int     { return b.defaultReps }
func (b *Base) RunSize() int         { return b.runSize }
func (b *Base) RunReps() int         { return b.runReps }
func (b *Base) Team() *team.Team     { return b.team }
func (b *Base) Logger() *slog.Logger { return b.logger }

// Checksum returns the accumulated checksum of vid.
func (b *Base) Checksum(vid suite.VariantID) float64 { return b.checksum[mustVariant(vid)] }

// Result returns the accumulated result of vid.
func (b *Base) Result(vid suite.VariantID) Result {
	r := b.results[mustVariant(vid)]
	r.Passes = append([]time.Duration(nil), r.Passes...)
	return r
}

// SetClock replaces the timer's time source.
func (b *Base) SetClock(clock func() time.Time) { b.clock = clock }

// SetTeam replaces the worker team used by thread-parallel variants.
func (b *Base) SetTeam(t *team.Team) { b.team = t }

// SetLogger replaces the logger used for lifecycle diagnostics.
func (b *Base) SetLogger(l *slog.Logger) { b.logger = l }

// StartTimer marks the start of the timed region.
func (b *Base) StartTimer() {
	if b.timing {
		panic(fmt.Sprintf("kernel %s: timer started twice", b.Name()))
	}
	b.timing = true
	b.timerStart = b.clock()
}

// StopTimer ends the timed region and adds it to the current pass.
func (b *Base) StopTimer() {
	if !b.timing {
		panic(fmt.Sprintf("kernel %s: timer stopped while not running", b.Name()))
	}
	b.passTime += b.clock().Sub(b.timerStart)
	b.timing = false
}

// Repeat runs body RunReps times inside one timed region.
func (b *Base) Repeat(body func()) {
	b.StartTimer()
	for irep := 0; irep < b.runReps; irep++ {
		body()
	}
	b.StopTimer()
}

// Run dispatches vid to its body in variants. A missing body, or a variant
// this binary cannot run, is recorded as not applicable and does no timed
// work. Concrete kernels call Run from RunKernel.
func (b *Base) Run(vid suite.VariantID, variants map[suite.VariantID]Body) {
	b.advance(vid, phaseSetUp, phaseRan, "RunKernel")

	body, ok := variants[vid]
	if !ok || !suite.IsSupported(vid) {
		b.passStat[vid] = NotApplicable
		b.record(vid, NotApplicable, 0, ErrNotApplicable)
		b.logger.Debug("variant not applicable, skipping",
			"kernel", b.Name(), "variant", suite.VariantName(vid))
		return
	}

	b.passTime = 0
	err := body()
	if b.timing {
		b.StopTimer()
	}
	if err != nil {
		b.passStat[vid] = Failed
		b.record(vid, Failed, 0, err)
		b.logger.Error("variant failed",
			"kernel", b.Name(), "variant", suite.VariantName(vid), "err", err)
		return
	}
	b.passStat[vid] = Ran
	b.record(vid, Ran, b.passTime, nil)
}

// record folds one pass into the variant result. A failure in any pass
// sticks; otherwise Ran outranks NotApplicable.
func (b *Base) record(vid suite.VariantID, s Status, d time.Duration, err error) {
	r := &b.results[vid]
	switch {
	case s == Failed:
		r.Status, r.Err = Failed, err
	case s == Ran && r.Status != Failed:
		r.Status, r.Err = Ran, nil
	case s == NotApplicable && r.Status == NotRun:
		r.Status, r.Err = NotApplicable, err
	}
	if s == Ran {
		r.Elapsed += d
		r.Passes = append(r.Passes, d)
	}
}

// AddChecksum adds v to the checksum of vid. It is a no-op unless the
// variant actually ran in the current pass, so unsupported or failed
// variants keep their checksum unchanged.
func (b *Base) AddChecksum(vid suite.VariantID, v float64) {
	if b.phases[mustVariant(vid)] != phaseRan {
		panic(fmt.Sprintf("kernel %s: UpdateChecksum(%s) while %s",
			b.Name(), suite.VariantName(vid), b.phases[vid]))
	}
	if b.passStat[vid] == Ran {
		b.checksum[vid] += v
	}
}

func (b *Base) advance(vid suite.VariantID, from, to phase, step string) {
	if b.phases[mustVariant(vid)] != from {
		panic(fmt.Sprintf("kernel %s: %s(%s) while %s, want %s",
			b.Name(), step, suite.VariantName(vid), b.phases[vid], from))
	}
	b.phases[vid] = to
}

func mustVariant(vid suite.VariantID) suite.VariantID {
	suite.VariantName(vid) // range check
	return vid
}
