package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
)

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Translation check report\n\n")
	fmt.Fprintf(&sb, "Generated %s.\n\n", r.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "- Total files: %d\n", r.Summary.Total)
	fmt.Fprintf(&sb, "- OK: %d\n", r.Summary.Passed)
	fmt.Fprintf(&sb, "- With issues: %d\n", r.Summary.WithIssues)
	fmt.Fprintf(&sb, "- Errors: %d\n", r.Summary.Errors)

	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "\n## %s (%s)\n\n", markdownEscape(e.File), e.Status)
		if e.Stats != nil {
			fmt.Fprintf(&sb, "Segments %d -> %d, %d changed line(s).\n\n",
				e.Stats.OriginalSegments, e.Stats.TranslatedSegments, e.Stats.ChangedLines)
		}
		if e.Error != "" {
			fmt.Fprintf(&sb, "**Error:** %s\n\n", markdownEscape(e.Error))
		}
		for _, d := range e.Diagnostics {
			fmt.Fprintf(&sb, "- `%s` %s\n", d.Kind, markdownEscape(d.Message))
		}
	}

	return sb.String()
}

func (r *Report) writeHTML(w io.Writer) error {
	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(r.Markdown()), &body); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Translation check report</title></head>\n<body>\n%s</body>\n</html>\n", body.String())
	return err
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `&lt;`,
	">", `&gt;`,
)

// markdownEscape keeps directives and key names literal in Markdown.
func markdownEscape(s string) string {
	return markdownEscaper.Replace(s)
}
