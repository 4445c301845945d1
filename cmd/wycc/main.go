// Command wycc is a thin exerciser of wyc.Diagnose: compile one or more
// ".why" files and print their diagnostics with a caret-underlined source
// line, the user-visible rendering spec.md §7 describes. It is not the
// excluded "package/build driver" (spec.md §1) — it has no build graph, no
// dependency resolution, just "run the pipeline over these files and report
// what it found," grounded on ottomap/main.go's cobra root-command shape.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/whylang/wyc"
	"github.com/whylang/wyc/diag"
)

var (
	errColor   = color.New(color.FgRed, color.Bold)
	caretColor = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wycc [files...]",
		Short: "check one or more \"why\" source files and print diagnostics",
		RunE:  runCheck,
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print wycc's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(wyc.Version().String())
		},
	})
	return root
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("wycc: no input files")
	}

	start := time.Now()
	var totalBytes int
	var totalDiags int

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("wycc: %w", err)
		}
		totalBytes += len(content)

		diags := wyc.Diagnose(path, string(content))
		totalDiags += len(diags)
		lines := strings.Split(string(content), "\n")
		for _, d := range diags {
			printDiagnostic(cmd, d, lines)
		}
	}

	if totalDiags == 0 {
		okColor.Fprintf(cmd.OutOrStdout(), "ok: %d file(s), %s, %s\n",
			len(args), humanize.Bytes(uint64(totalBytes)), time.Since(start).Round(time.Millisecond))
		return nil
	}
	return fmt.Errorf("wycc: %d diagnostic(s) across %d file(s)", totalDiags, len(args))
}

// printDiagnostic renders one diagnostic with its source line and a
// caret-underline beneath the offending span (spec.md §7).
func printDiagnostic(cmd *cobra.Command, d diag.Diagnostic, lines []string) {
	w := cmd.OutOrStdout()
	errColor.Fprintf(w, "%s: %s: %s\n", d.Span, d.Kind, d.Message)

	lineIdx := d.Span.Start.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return
	}
	line := lines[lineIdx]
	fmt.Fprintln(w, line)

	col := d.Span.Start.Column - 1
	if col < 0 {
		col = 0
	}
	width := d.Span.End.Column - d.Span.Start.Column
	if d.Span.End.Line != d.Span.Start.Line || width < 1 {
		width = 1
	}
	caretColor.Fprintf(w, "%s%s\n", strings.Repeat(" ", col), strings.Repeat("^", width))
}
