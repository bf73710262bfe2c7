package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kernelkit/kernel/pkg/kernel"
	"github.com/kernelkit/kernel/pkg/resolve"
)

var (
	headingColor  = color.New(color.FgCyan, color.Bold)
	orderColor    = color.New(color.FgGreen)
	conflictColor = color.New(color.FgRed)
	warningColor  = color.New(color.FgYellow)
)

// printReport renders result to cmd's output, colorized unless noColor or
// the output isn't a color-capable terminal.
func printReport(cmd *cobra.Command, result *resolve.Result, noColor bool) {
	out := cmd.OutOrStdout()
	if noColor {
		color.NoColor = true
	}

	report := kernel.NewReport(result)

	headingColor.Fprintln(out, "Load order:")
	if len(report.Order) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, name := range report.Order {
		orderColor.Fprintf(out, "  %s\n", name)
	}

	if len(report.Conflicts) > 0 {
		headingColor.Fprintln(out, "Conflicts:")
		for _, c := range report.Conflicts {
			conflictColor.Fprintf(out, "  %s\n", c)
		}
	}

	if len(report.Warnings) > 0 {
		headingColor.Fprintln(out, "Warnings:")
		for _, w := range report.Warnings {
			warningColor.Fprintf(out, "  %s\n", w)
		}
	}
}
