// Package report renders check results as text, JSON, Markdown or HTML, and
// prints the console summary table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"tagcheck/internal/batch"
	"tagcheck/internal/compare"
	"tagcheck/internal/config"
	"tagcheck/internal/diagnostic"
)

const timeLayout = "2006-01-02 15:04:05"

// Entry is the report view of one pair.
type Entry struct {
	File        string                  `json:"file"`
	Original    string                  `json:"original"`
	Translated  string                  `json:"translated"`
	Status      batch.Status            `json:"status"`
	Error       string                  `json:"error,omitempty"`
	Attempts    int                     `json:"attempts,omitempty"`
	SessionID   string                  `json:"session_id,omitempty"`
	Stats       *compare.Stats          `json:"stats,omitempty"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

// Report is a rendered batch.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Summary     batch.Summary `json:"summary"`
	Entries     []Entry       `json:"entries"`
}

// New builds a report from batch results.
func New(results []batch.Result, now time.Time) *Report {
	r := &Report{
		GeneratedAt: now,
		Summary:     batch.Summarize(results),
		Entries:     make([]Entry, 0, len(results)),
	}
	for _, res := range results {
		e := Entry{
			File:       res.Pair.Name,
			Original:   res.Pair.Original,
			Translated: res.Pair.Translated,
			Status:     res.Status,
			Attempts:   res.Attempts,
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		if res.Session != nil {
			stats := res.Session.Stats
			e.Stats = &stats
			e.SessionID = res.Session.ID.String()
			e.Diagnostics = res.Session.Diagnostics()
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

// Write renders the report in format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case config.FormatText, "":
		return r.writeText(w)
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(r)
	case config.FormatMarkdown:
		_, err := io.WriteString(w, r.Markdown())
		return err
	case config.FormatHTML:
		return r.writeHTML(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case config.FormatJSON:
		return ".json"
	case config.FormatMarkdown:
		return ".md"
	case config.FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// FileName returns the default report file name.
func FileName(format string, now time.Time) string {
	return "check_report_" + now.Format("20060102_150405") + Extension(format)
}

func (r *Report) writeText(w io.Writer) error {
	var sb strings.Builder
	rule := strings.Repeat("=", 80)

	sb.WriteString(rule + "\n")
	sb.WriteString("TRANSLATION CHECK REPORT\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Time: %s\n", r.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Total files: %d\n", r.Summary.Total)
	fmt.Fprintf(&sb, "Files OK: %d\n", r.Summary.Passed)
	fmt.Fprintf(&sb, "Files with issues: %d\n", r.Summary.WithIssues)
	fmt.Fprintf(&sb, "Files with errors: %d\n", r.Summary.Errors)

	var failing []Entry
	for _, e := range r.Entries {
		if e.Status != batch.StatusPass {
			failing = append(failing, e)
		}
	}

	if len(failing) > 0 {
		sb.WriteString("\nDETAILS:\n")
		sb.WriteString(strings.Repeat("-", 40) + "\n")
	}
	for _, e := range failing {
		fmt.Fprintf(&sb, "\nFile: %s\n", e.File)
		if e.Stats != nil {
			fmt.Fprintf(&sb, "   Segments: %d -> %d\n", e.Stats.OriginalSegments, e.Stats.TranslatedSegments)
			fmt.Fprintf(&sb, "   Issues: %d\n", len(e.Diagnostics))
			fmt.Fprintf(&sb, "   Changed lines: %d\n", e.Stats.ChangedLines)
		}
		if e.Attempts > 0 {
			fmt.Fprintf(&sb, "   Regeneration attempts: %d\n", e.Attempts)
		}
		if e.Error != "" {
			fmt.Fprintf(&sb, "   Error: %s\n", e.Error)
		}
		for _, d := range e.Diagnostics {
			fmt.Fprintf(&sb, "      - %s\n", d.Message)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
