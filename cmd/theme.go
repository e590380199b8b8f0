package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/infographic/pkg/analyzer"
	"github.com/xhad/infographic/pkg/theme"
)

func newThemeCmd(a *app) *cobra.Command {
	var (
		list   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "theme [bundle-or-analysis.json]",
		Short: "Show the theme selected for an analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for i, name := range theme.Names() {
					fmt.Fprintf(out, "%d  %s\n", i, name)
				}
				fmt.Fprintf(out, "catalog version %d\n", theme.CatalogVersion)
				return nil
			}
			if len(args) == 0 {
				return errors.New("an analysis file is required unless --list is set")
			}

			in, err := readAnalysisInput(args[0])
			if err != nil {
				return err
			}
			t := theme.ForAnalysis(analyzer.Normalize(in.Payload))

			if asJSON {
				data, err := json.MarshalIndent(t, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			printTheme(out, t)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List the theme catalog")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the theme as JSON")
	return cmd
}

func printTheme(out io.Writer, t theme.Theme) {
	mode := "light"
	if t.IsDark {
		mode = "dark"
	}
	color.New(color.Bold).Fprintf(out, "%s", t.Name)
	fmt.Fprintf(out, " (%s)\n", mode)

	rows := [][2]string{
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"accent", t.Accent},
		{"background", t.Background},
		{"text", t.Text},
		{"headings", t.FontHeading},
		{"body", t.FontBody},
		{"chart", strings.Join(t.ChartColors[:], " ")},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %s %s\n", cell(row[0], 11), row[1])
	}
}
