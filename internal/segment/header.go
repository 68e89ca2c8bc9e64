package segment

import "strings"

// DefaultHeaderPrefix marks a segment header line in block script files.
const DefaultHeaderPrefix = "Txt_"

// HeaderSegmenter handles block files where a line starting with a reserved
// prefix opens a new segment.
type HeaderSegmenter struct {
	prefix string
}

func NewHeaderSegmenter(prefix string) *HeaderSegmenter {
	if prefix == "" {
		prefix = DefaultHeaderPrefix
	}
	return &HeaderSegmenter{prefix: prefix}
}

func (s *HeaderSegmenter) Name() string { return ModeHeader }

// Prefix returns the header prefix in use.
func (s *HeaderSegmenter) Prefix() string { return s.prefix }

func (s *HeaderSegmenter) Segment(lines []string) *Document {
	doc := NewDocument()
	var current *Segment

	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, s.prefix) {
			current = doc.Start(trimmed)
			continue
		}

		// Lines before the first header are not compared.
		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, Line{Index: idx, Text: line})
	}

	return doc
}
