package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "resolve <manifest.yaml>",
		Short: "Build a kernel from a plugin manifest and print the resolution report",
		Long: `resolve reads a YAML plugin manifest, builds a kernel from it (running
dependency resolution but never any plugin's setup), and prints the
resulting load order, conflicts and warnings.

A manifest declares each plugin's name, version, dependencies and
extension targets:

  plugins:
    - name: logger
      version: 1.0.0
    - name: trace
      version: 1.0.0
      depends:
        - target: logger
          constraint: "^1"
      extends: [logger]
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			builder, err := manifest.build()
			if err != nil {
				return err
			}

			result, resolveErr := builder.Resolve()
			printReport(cmd, result, noColor)

			if resolveErr != nil {
				return fmt.Errorf("resolution failed: %w", resolveErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")
	return cmd
}
