package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "extract <file|url>",
		Short: "Print the plain text of a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			content, err := a.newRegistry().Extract(cmd.Context(), source)
			if err != nil {
				return err
			}

			var v any = map[string]string{
				"file_id":  uuid.NewString(),
				"filename": filepath.Base(source),
				"text":     content.RawText,
			}
			if full {
				v = content
			}

			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&full, "sections", false, "Print title and sections as well")
	return cmd
}
