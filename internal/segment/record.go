package segment

import "strings"

const (
	recordIDPrefix   = "SelfId="
	recordTextPrefix = "Text="
)

// RecordSegmenter handles key/value script records:
//
//	SelfId=1001
//	Speaker=...
//	Text=<cf>Hello {NAME}
//
// Each record becomes a segment keyed by its id whose only body line is the
// content of its first Text= line.
type RecordSegmenter struct{}

func NewRecordSegmenter() *RecordSegmenter { return &RecordSegmenter{} }

func (s *RecordSegmenter) Name() string { return ModeRecord }

func (s *RecordSegmenter) Segment(lines []string) *Document {
	doc := NewDocument()
	var current *Segment
	hasText := false

	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, recordIDPrefix):
			current = doc.Start(trimmed[len(recordIDPrefix):])
			hasText = false
		case current == nil || hasText:
			continue
		case strings.HasPrefix(trimmed, recordTextPrefix):
			current.Lines = append(current.Lines, Line{Index: idx, Text: trimmed[len(recordTextPrefix):]})
			hasText = true
		}
	}

	return doc
}
