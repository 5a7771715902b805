package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bundle from a JSON or zip export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			application, _, err := setup(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Exporter.ImportFile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "resources:  %d imported, %d reused, %d skipped\n",
				report.ResourcesImported, report.ResourcesReused, report.ResourcesSkipped)
			fmt.Fprintf(out, "highlights: %d imported, %d skipped\n",
				report.HighlightsImported, report.HighlightsSkipped)
			fmt.Fprintf(out, "flashcards: %d imported, %d skipped\n",
				report.FlashcardsImported, report.FlashcardsSkipped)
			fmt.Fprintf(out, "tracks:     %d imported, %d skipped\n",
				report.TracksImported, report.TracksSkipped)
			return nil
		},
	}
}
