// Package segment splits a script document into keyed segments according to
// one of the supported file conventions.
package segment

import "fmt"

// Line is a single body line of a segment.
type Line struct {
	// Index is the 0-based line number in the whole source document.
	Index int
	// Text is the raw line content.
	Text string
}

// Segment is a named, contiguous run of lines under one header key.
type Segment struct {
	// Key is the header text identifying the segment.
	Key string
	// Lines are the body lines in document order.
	Lines []Line
}

// Document is an ordered mapping from segment key to segment.
type Document struct {
	order    []string
	segments map[string]*Segment
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{segments: make(map[string]*Segment)}
}

// Start begins a segment for key, discarding any body previously collected
// under the same key. A repeated key keeps its original position.
func (d *Document) Start(key string) *Segment {
	if s, ok := d.segments[key]; ok {
		s.Lines = nil
		return s
	}
	s := &Segment{Key: key}
	d.segments[key] = s
	d.order = append(d.order, key)
	return s
}

// Get returns the segment for key.
func (d *Document) Get(key string) (*Segment, bool) {
	s, ok := d.segments[key]
	return s, ok
}

// Keys returns segment keys in first-seen order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of segments.
func (d *Document) Len() int { return len(d.order) }

// Segmenter is the interface for all document conventions.
type Segmenter interface {
	// Name identifies the convention (used in configuration and reports).
	Name() string
	// Segment splits lines into keyed segments. A document without any
	// header yields an empty Document.
	Segment(lines []string) *Document
}

// Mode names a segmentation convention.
const (
	ModeHeader = "header"
	ModeRecord = "record"
)

// Lookup returns the segmenter for a configured mode. prefix is only used by
// the header convention; an empty prefix selects DefaultHeaderPrefix.
func Lookup(mode, prefix string) (Segmenter, error) {
	switch mode {
	case "", ModeHeader:
		return NewHeaderSegmenter(prefix), nil
	case ModeRecord:
		return NewRecordSegmenter(), nil
	default:
		return nil, fmt.Errorf("unknown segment mode %q (want %s or %s)", mode, ModeHeader, ModeRecord)
	}
}
