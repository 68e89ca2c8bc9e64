// Package diagnostic defines the findings produced when an original and a
// translated script are compared.
package diagnostic

// Kind classifies a diagnostic.
type Kind string

const (
	KindMissingSegment Kind = "missing_segment"
	KindExtraSegment   Kind = "extra_segment"
	KindLineCount      Kind = "line_count"
	KindMissingLine    Kind = "missing_line"
	KindEmptyLine      Kind = "empty_line"
	KindStructure      Kind = "structure"
)

// Diagnostic is one mismatch between an original and a translated document.
// Nil coordinates mean the coordinate does not apply.
type Diagnostic struct {
	Message    string `json:"message"`
	Kind       Kind   `json:"kind"`
	SegmentKey string `json:"segment_key"`
	// Line is the 1-based line number inside the segment.
	Line *int `json:"line,omitempty"`
	// OriginalLine is the 0-based line number in the original document.
	OriginalLine *int `json:"original_line,omitempty"`
	// TranslatedLine is the 0-based line number in the translated document.
	TranslatedLine *int    `json:"translated_line,omitempty"`
	Detail         *Detail `json:"detail,omitempty"`
}

// Detail holds the structured findings behind a structural diagnostic.
type Detail struct {
	MissingDirectives   []string      `json:"missing_directives,omitempty"`
	ExtraDirectives     []string      `json:"extra_directives,omitempty"`
	MissingPlaceholders []string      `json:"missing_placeholders,omitempty"`
	ExtraPlaceholders   []string      `json:"extra_placeholders,omitempty"`
	Occurrences         []Occurrences `json:"occurrences,omitempty"`
	Parameters          []Parameters  `json:"parameters,omitempty"`
}

// Empty reports whether no finding was recorded.
func (d *Detail) Empty() bool {
	return len(d.MissingDirectives) == 0 &&
		len(d.ExtraDirectives) == 0 &&
		len(d.MissingPlaceholders) == 0 &&
		len(d.ExtraPlaceholders) == 0 &&
		len(d.Occurrences) == 0 &&
		len(d.Parameters) == 0
}

// Occurrences records a directive that appears a different number of times.
type Occurrences struct {
	Name       string `json:"name"`
	Original   int    `json:"original"`
	Translated int    `json:"translated"`
}

// ParameterIssue classifies a per-occurrence parameter problem.
type ParameterIssue string

const (
	// ParamCount: the translation declares a different number of slots.
	ParamCount ParameterIssue = "count"
	// ParamBlank: every slot of the translated directive is empty.
	ParamBlank ParameterIssue = "blank"
	// ParamPartial: some slots of the translated directive are empty.
	ParamPartial ParameterIssue = "partial"
)

// Parameters records a parameter problem on the nth occurrence (0-based) of a
// directive.
type Parameters struct {
	Name               string         `json:"name"`
	Occurrence         int            `json:"occurrence"`
	Issue              ParameterIssue `json:"issue"`
	OriginalDeclared   int            `json:"original_declared"`
	TranslatedDeclared int            `json:"translated_declared"`
	TranslatedFilled   int            `json:"translated_filled"`
}

// At returns a pointer to n, for filling optional coordinates.
func At(n int) *int { return &n }

// Clone returns a deep copy of diags. Consumers that need to edit a list get
// their own copy this way.
func Clone(diags []Diagnostic) []Diagnostic {
	if diags == nil {
		return nil
	}
	out := make([]Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = d
		out[i].Line = clonePtr(d.Line)
		out[i].OriginalLine = clonePtr(d.OriginalLine)
		out[i].TranslatedLine = clonePtr(d.TranslatedLine)
		if d.Detail != nil {
			det := *d.Detail
			det.MissingDirectives = append([]string(nil), d.Detail.MissingDirectives...)
			det.ExtraDirectives = append([]string(nil), d.Detail.ExtraDirectives...)
			det.MissingPlaceholders = append([]string(nil), d.Detail.MissingPlaceholders...)
			det.ExtraPlaceholders = append([]string(nil), d.Detail.ExtraPlaceholders...)
			det.Occurrences = append([]Occurrences(nil), d.Detail.Occurrences...)
			det.Parameters = append([]Parameters(nil), d.Detail.Parameters...)
			out[i].Detail = &det
		}
	}
	return out
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	return At(*p)
}
