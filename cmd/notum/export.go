package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		output string
		format string
		tracks string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			application, _, err := setup(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			var trackIDs []uuid.UUID
			if tracks != "" {
				for _, raw := range strings.Split(tracks, ",") {
					id, err := uuid.Parse(strings.TrimSpace(raw))
					if err != nil {
						return fmt.Errorf("invalid track id %q: %w", raw, err)
					}
					trackIDs = append(trackIDs, id)
				}
			}

			switch format {
			case "json":
				data, err := application.Exporter.ExportJSON(ctx, trackIDs...)
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
			case "zip":
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := application.Exporter.ExportArchive(ctx, f, trackIDs...); err != nil {
					f.Close()
					return fmt.Errorf("export failed: %w", err)
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
			default:
				return fmt.Errorf("unknown format %q (expected json or zip)", format)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "notum-export.json", "output file path")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format (json or zip)")
	cmd.Flags().StringVar(&tracks, "tracks", "", "comma-separated track ids to export (default: everything)")

	return cmd
}
