package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xhad/infographic/pkg/analyzer"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "normalize <payload.json>",
		Short: "Validate an externally produced analysis and write its bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readAnalysisInput(args[0])
			if err != nil {
				return err
			}

			analysis := analyzer.Normalize(in.Payload)
			analyzer.NormalizeTitle(analysis, fallbackTitle(in.Filename))

			id := in.FileID
			if id == "" {
				id = uuid.NewString()
			}
			if outputDir == "" {
				outputDir = a.cfg.Output.Dir
			}

			res := result{Source: in.Filename, Bundle: newBundle(id, in.Filename, analysis)}
			res.Path, res.Err = writeBundle(outputDir, res.Bundle)
			printReport(cmd.OutOrStdout(), []result{res})
			return res.Err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	return cmd
}
