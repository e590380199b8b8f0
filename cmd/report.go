package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/schollz/progressbar/v3"
)

const (
	titleWidth = 40
	themeWidth = 16
)

// result is the outcome of one document.
type result struct {
	Source string
	Bundle *Bundle
	Path   string
	Stored bool
	Err    error
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// cell pads or cuts s to exactly width terminal columns.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func printReport(out io.Writer, results []result) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s %s %s\n", fail("✗"), cell(r.Source, titleWidth), fail(r.Err.Error()))
			continue
		}
		a := r.Bundle.Analysis
		stored := ""
		if r.Stored {
			stored = dim(" (archived)")
		}
		fmt.Fprintf(out, "%s %s %s %s%s\n",
			ok("✓"),
			cell(r.Bundle.Title, titleWidth),
			cell(r.Bundle.Theme.Name, themeWidth),
			r.Path,
			stored,
		)
		fmt.Fprintf(out, "  %s\n", dim(fmt.Sprintf("%d ideas, %d figures, %d dates, %d chart entries",
			len(a.KeyIdeas), len(a.KeyFigures), len(a.Timeline), a.CategoriesForChart.Len())))
	}
}
