// Command perfsuite runs the kernel suite once and writes its reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	_ "github.com/justin-oleary/perfsuite/pkg/metrics" // register collectors
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/report"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// errBadInput is returned after the parameter errors have been printed.
var errBadInput = errors.New("invalid command line")

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perfsuite [options]",
		Short: "Run performance kernels and compare their variant checksums",
		Long: `perfsuite runs a selection of loop kernels in several programming-model
variants, times each variant and checks its checksum against a reference
variant. Pass --help to list the suite options.`,
		// params owns the option grammar, including -h and --help.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func main() {
	slog.SetDefault(newLogger(os.Stderr))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errBadInput) {
			slog.Error("perfsuite failed", "err", err)
		}
		os.Exit(1)
	}
}

// newLogger logs text on an interactive terminal and JSON otherwise.
func newLogger(out *os.File) *slog.Logger {
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return slog.New(slog.NewTextHandler(out, nil))
	}
	return slog.New(slog.NewJSONHandler(out, nil))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rp := params.New(args)

	switch rp.InputState() {
	case params.InfoRequest:
		rp.PrintInfo(stdout)
		return nil
	case params.BadInput:
		printInputErrors(stderr, rp)
		return errBadInput
	}

	warnInvalidTokens(rp)

	w := report.NewWriter(rp, report.WithSummary(stdout))
	ex := executor.New(rp, executor.WithReporters(w))

	if rp.InputState() == params.DryRun {
		if err := rp.Print(stdout); err != nil {
			return err
		}
		printPlan(stdout, ex.Plan())
		return nil
	}

	res, err := ex.Run(ctx)
	if res != nil {
		for _, warn := range res.Warnings() {
			slog.Warn("correctness warning", "run_id", res.ID, "warning", warn)
		}
		slog.Info("suite finished",
			"run_id", res.ID,
			"kernels", len(res.Kernels),
			"elapsed", res.End.Sub(res.Start),
			"results", w.ResultsPath(),
		)
	}
	return err
}

func printInputErrors(w io.Writer, rp *params.RunParams) {
	for _, e := range rp.Errors() {
		fmt.Fprintf(w, "perfsuite: %s\n", e)
	}
	if bad := rp.InvalidKernelInput(); len(bad) > 0 {
		fmt.Fprintf(w, "perfsuite: invalid kernel names: %s\n", strings.Join(bad, " "))
	}
	if bad := rp.InvalidVariantInput(); len(bad) > 0 {
		fmt.Fprintf(w, "perfsuite: invalid variant names: %s\n", strings.Join(bad, " "))
	}
	fmt.Fprintln(w, "perfsuite: run with --help for usage")
}

// warnInvalidTokens reports names that were ignored because other names in
// the same selection resolved.
func warnInvalidTokens(rp *params.RunParams) {
	if bad := rp.InvalidKernelInput(); len(bad) > 0 {
		slog.Warn("ignoring unknown kernel names", "names", bad)
	}
	if bad := rp.InvalidVariantInput(); len(bad) > 0 {
		slog.Warn("ignoring unknown variant names", "names", bad)
	}
}

func printPlan(w io.Writer, plan executor.Plan) {
	fmt.Fprintf(w, "\nreference variant: %s\n", suite.VariantName(plan.Reference))
	fmt.Fprintf(w, "passes: %d\n", plan.NumPasses)
	fmt.Fprintln(w, "variants:")
	for _, v := range plan.Variants {
		fmt.Fprintf(w, "  %s\n", suite.VariantName(v))
	}
	for _, v := range plan.Unsupported {
		fmt.Fprintf(w, "  %s (not available in this build)\n", suite.VariantName(v))
	}
	fmt.Fprintln(w, "kernels:")
	for _, k := range plan.Kernels {
		fmt.Fprintf(w, "  %s\n", suite.FullKernelName(k))
	}
}
