package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// colorScheme provides color functions for the benchmark table,
// automatically disabled for non-TTY output or when noColor is set.
type colorScheme struct {
	Header  func(format string, a ...interface{}) string
	Variant func(format string, a ...interface{}) string
	Elapsed func(format string, a ...interface{}) string
	enabled bool
}

func newColorScheme(w io.Writer, noColor bool) *colorScheme {
	if noColor || !isTTY(w) {
		return &colorScheme{
			Header:  color.New().Sprintf,
			Variant: color.New().Sprintf,
			Elapsed: color.New().Sprintf,
		}
	}
	return &colorScheme{
		Header:  color.New(color.FgWhite, color.Bold).Sprintf,
		Variant: color.New(color.FgCyan, color.Bold).Sprintf,
		Elapsed: color.New(color.FgGreen).Sprintf,
		enabled: true,
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeTable renders results as a kubectl-style borderless table,
// fastest variant first, followed by a footer line with the run id.
func writeTable(w io.Writer, results []Result, noColor bool) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return nil
	}

	sorted := append([]Result(nil), results...)
	sortByElapsed(sorted)

	colors := newColorScheme(w, noColor)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	headers := []string{"VARIANT", "WORKERS", "GROUPS", "TASKS", "ELAPSED"}
	if colors.enabled {
		for i, h := range headers {
			headers[i] = colors.Header(h)
		}
	}
	table.SetHeader(headers)

	for _, r := range sorted {
		variant := r.Variant
		elapsed := r.Elapsed.String()
		if colors.enabled {
			variant = colors.Variant(variant)
			elapsed = colors.Elapsed(elapsed)
		}
		table.Append([]string{
			variant,
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Groups),
			fmt.Sprintf("%d", r.Tasks),
			elapsed,
		})
	}

	table.Render()
	if runID := sorted[0].RunID; runID != "" {
		fmt.Fprintf(w, "run id: %s\n", runID)
	}
	return nil
}

// writeJSON renders results as an indented JSON array.
func writeJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return errors.Wrap(err, "encode results")
	}
	return nil
}

// sortByElapsed orders results fastest first, in place.
func sortByElapsed(results []Result) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Elapsed < results[j-1].Elapsed; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}
