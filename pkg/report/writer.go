package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	"github.com/justin-oleary/perfsuite/pkg/params"
)

// Writer writes the output files of a run under the configured output
// directory:
//
//	<prefix>-params.yaml    run manifest
//	<prefix>-results.json   results document
//	<prefix>-metrics.prom   Prometheus textfile collector format
//
// It implements executor.Reporter.
type Writer struct {
	rp       *params.RunParams
	dir      string
	prefix   string
	gatherer prometheus.Gatherer
	host     func() Host
	summary  io.Writer
	logger   *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithGatherer replaces the metrics source. Defaults to the default
// Prometheus registry.
func WithGatherer(g prometheus.Gatherer) WriterOption { return func(w *Writer) { w.gatherer = g } }

// WithHost replaces host detection.
func WithHost(fn func() Host) WriterOption { return func(w *Writer) { w.host = fn } }

// WithSummary also renders the summary table to out.
func WithSummary(out io.Writer) WriterOption { return func(w *Writer) { w.summary = out } }

// WithWriterLogger sets the logger.
func WithWriterLogger(l *slog.Logger) WriterOption { return func(w *Writer) { w.logger = l } }

// NewWriter returns a Writer for the output directory and prefix in rp.
func NewWriter(rp *params.RunParams, opts ...WriterOption) *Writer {
	w := &Writer{
		rp:       rp,
		dir:      rp.OutputDirName(),
		prefix:   rp.OutputFilePrefix(),
		gatherer: prometheus.DefaultGatherer,
		host:     DetectHost,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// ParamsPath is the manifest file path.
func (w *Writer) ParamsPath() string { return w.path("params.yaml") }

// ResultsPath is the results file path.
func (w *Writer) ResultsPath() string { return w.path("results.json") }

// MetricsPath is the Prometheus textfile path.
func (w *Writer) MetricsPath() string { return w.path("metrics.prom") }

func (w *Writer) path(suffix string) string {
	return filepath.Join(w.dir, w.prefix+"-"+suffix)
}

// Report writes every output file for res.
func (w *Writer) Report(ctx context.Context, res *executor.RunResult) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeAtomic(w.ParamsPath(), w.rp.Print); err != nil {
		return fmt.Errorf("write run manifest: %w", err)
	}

	doc := Build(res, w.host())
	if err := writeAtomic(w.ResultsPath(), func(f io.Writer) error {
		return EncodeJSON(f, doc)
	}); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	if err := prometheus.WriteToTextfile(w.MetricsPath(), w.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	w.logger.Info("run reports written",
		"run_id", res.ID,
		"params", w.ParamsPath(),
		"results", w.ResultsPath(),
		"metrics", w.MetricsPath(),
	)

	if w.summary != nil {
		if err := WriteTable(w.summary, doc); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

// EncodeJSON writes doc as indented JSON.
func EncodeJSON(out io.Writer, doc Results) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
