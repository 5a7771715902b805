// Package main implements the notum CLI: serve the HTTP core, export the
// store to a bundle or archive, and import bundles produced elsewhere.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notum",
		Short:         "Local research and study store",
		Long:          "notum is the local persistence and scheduling core of a personal research/study tool: captured resources, highlights, flashcards and study tracks, with spaced-repetition scheduling and portable exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())

	return root
}
