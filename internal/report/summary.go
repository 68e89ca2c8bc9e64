package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"tagcheck/internal/batch"
)

// WriteSummary prints a table with one row per pair followed by the totals.
func (r *Report) WriteSummary(w io.Writer) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Status", "Segments", "Issues", "Attempts"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, e := range r.Entries {
		segments := "-"
		if e.Stats != nil {
			if e.Stats.WholeText {
				segments = "whole"
			} else {
				segments = fmt.Sprintf("%d/%d", e.Stats.OriginalSegments, e.Stats.TranslatedSegments)
			}
		}
		table.Append([]string{
			e.File,
			statusLabel(e.Status),
			segments,
			fmt.Sprintf("%d", len(e.Diagnostics)),
			fmt.Sprintf("%d", e.Attempts),
		})
	}

	table.Render()

	bold := color.New(color.Bold)
	if _, err := fmt.Fprintf(w, "\n%s\n", tableBuffer.String()); err != nil {
		return err
	}
	_, err := bold.Fprintf(w, "Total: %d  OK: %d  Issues: %d  Errors: %d\n",
		r.Summary.Total, r.Summary.Passed, r.Summary.WithIssues, r.Summary.Errors)
	return err
}

func statusLabel(s batch.Status) string {
	switch s {
	case batch.StatusPass:
		return color.GreenString("OK")
	case batch.StatusIssues:
		return color.YellowString("ISSUES")
	default:
		return color.RedString("ERROR")
	}
}
