// Command kernelctl is a small demonstration CLI over the kernel package:
// it loads a declarative plugin manifest and reports how the resolver
// would order, or reject, that plugin set.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kernelctl",
		Short:         "Inspect plugin manifests against the kernel's dependency resolver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newResolveCommand())
	return root
}
