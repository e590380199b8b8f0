package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSimilarCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "List archived analyses closest to a stored one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New("--limit must be at least 1")
			}
			ctx := cmd.Context()

			archive, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer archive.Close()

			rec, err := archive.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if len(rec.Embedding) == 0 {
				return fmt.Errorf("analysis %s was archived without an embedding", rec.ID)
			}

			matches, err := archive.Similar(ctx, rec.Embedding, limit+1)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color.New(color.Bold).Fprintf(out, "%s\n", rec.Analysis.Title)
			shown := 0
			for _, m := range matches {
				if m.ID == rec.ID || shown == limit {
					continue
				}
				shown++
				fmt.Fprintf(out, "  %s %s %s %s\n",
					m.ID,
					cell(m.Analysis.Title, titleWidth),
					cell(m.Theme, themeWidth),
					m.Source,
				)
			}
			if shown == 0 {
				fmt.Fprintln(out, "  no similar analyses")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of analyses to list")
	return cmd
}
