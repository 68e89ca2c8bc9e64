package compare

import (
	"tagcheck/internal/diagnostic"
	"tagcheck/internal/segment"
	"tagcheck/internal/textutil"
)

// WholeTextKey names the synthetic segment used when neither document
// contains a recognizable header.
const WholeTextKey = "WHOLE_TEXT"

// Options configures a document comparison. Zero values select the header
// convention with the default prefix and English messages.
type Options struct {
	Segmenter segment.Segmenter
	Catalog   *diagnostic.Catalog
}

func (o Options) withDefaults() Options {
	if o.Segmenter == nil {
		o.Segmenter = segment.NewHeaderSegmenter(segment.DefaultHeaderPrefix)
	}
	if o.Catalog == nil {
		o.Catalog = diagnostic.English
	}
	return o
}

// Documents compares two whole documents. Missing segments are reported
// first, then extra segments, then per-segment findings in original order.
func Documents(original, translated string, opts Options) []diagnostic.Diagnostic {
	c := run(original, translated, opts.withDefaults())
	return c.diags
}

func run(original, translated string, opts Options) *comparer {
	c := &comparer{cat: opts.Catalog}

	oLines := textutil.SplitLines(original)
	tLines := textutil.SplitLines(translated)

	oDoc := opts.Segmenter.Segment(oLines)
	tDoc := opts.Segmenter.Segment(tLines)

	if oDoc.Len() == 0 && tDoc.Len() == 0 {
		c.stats.WholeText = true
		c.segment(WholeTextKey, asLines(oLines), asLines(tLines))
		return c
	}

	c.stats.OriginalSegments = oDoc.Len()
	c.stats.TranslatedSegments = tDoc.Len()

	for _, key := range oDoc.Keys() {
		if _, ok := tDoc.Get(key); !ok {
			c.add(diagnostic.Diagnostic{
				Message:    c.cat.Format(diagnostic.MsgMissingSegment, key),
				Kind:       diagnostic.KindMissingSegment,
				SegmentKey: key,
			})
		}
	}
	for _, key := range tDoc.Keys() {
		if _, ok := oDoc.Get(key); !ok {
			c.add(diagnostic.Diagnostic{
				Message:    c.cat.Format(diagnostic.MsgExtraSegment, key),
				Kind:       diagnostic.KindExtraSegment,
				SegmentKey: key,
			})
		}
	}

	for _, key := range oDoc.Keys() {
		ts, ok := tDoc.Get(key)
		if !ok {
			continue
		}
		orig, _ := oDoc.Get(key)
		c.segment(key, orig.Lines, ts.Lines)
	}

	return c
}

func asLines(lines []string) []segment.Line {
	out := make([]segment.Line, len(lines))
	for i, l := range lines {
		out[i] = segment.Line{Index: i, Text: l}
	}
	return out
}
