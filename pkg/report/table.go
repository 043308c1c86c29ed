package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/justin-oleary/perfsuite/pkg/executor"
)

// WriteTable renders one row per kernel variant plus a verdict line. Colors
// are used only when w is a terminal.
func WriteTable(w io.Writer, res Results) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	warn := cell.Foreground(lipgloss.Color("#F4D03F"))
	bad := cell.Foreground(lipgloss.Color("#E74C3C"))

	var rows [][]string
	for _, k := range res.Kernels {
		for _, v := range k.Variants {
			rows = append(rows, []string{
				k.Kernel,
				v.Variant,
				v.Status,
				formatSeconds(v),
				strconv.FormatFloat(v.Checksum, 'g', 17, 64),
				formatDelta(v),
				v.Verdict,
			})
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#16858E"))).
		Headers("KERNEL", "VARIANT", "STATUS", "TIME (s)", "CHECKSUM", "DELTA", "VERDICT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if rows[row][6] == "mismatch" || rows[row][2] == "failed" {
				return bad
			}
			if rows[row][2] != "ran" {
				return warn
			}
			return cell
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	s := res.Summary
	_, err := fmt.Fprintf(w, "run %s: %d kernels, %d ran, %d n/a, %d failed, %d checksum mismatches, %d unverified: %s\n",
		res.RunID, s.Kernels, s.Ran, s.NotApplicable, s.Failed, s.Mismatches, s.Unverified, s.Verdict)
	return err
}

func formatSeconds(v VariantReport) string {
	if v.Status != "ran" {
		return "-"
	}
	return strconv.FormatFloat(v.ElapsedSeconds, 'f', 6, 64)
}

func formatDelta(v VariantReport) string {
	if v.RelativeDelta == nil {
		return "-"
	}
	return strconv.FormatFloat(*v.RelativeDelta, 'e', 2, 64)
}

// Summarize is Build followed by WriteTable.
func Summarize(w io.Writer, res *executor.RunResult, host Host) error {
	return WriteTable(w, Build(res, host))
}
