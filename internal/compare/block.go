// Package compare checks that a translated script keeps the directives,
// placeholders and line layout of its original.
package compare

import (
	"strings"

	"tagcheck/internal/diagnostic"
	"tagcheck/internal/directive"
	"tagcheck/internal/segment"
	"tagcheck/internal/textutil"
)

// previewRunes bounds the original-line excerpt in missing-line diagnostics.
const previewRunes = 60

// Stats summarizes one comparison run.
type Stats struct {
	// OriginalSegments and TranslatedSegments count keyed segments per side.
	// Both are zero when the run fell back to whole-text comparison.
	OriginalSegments   int  `json:"original_segments"`
	TranslatedSegments int  `json:"translated_segments"`
	WholeText          bool `json:"whole_text"`
	// ComparedLines counts line pairs present on both sides.
	ComparedLines int `json:"compared_lines"`
	// ChangedLines counts compared pairs whose trimmed text differs.
	ChangedLines int `json:"changed_lines"`
}

// comparer accumulates diagnostics and stats for one run.
type comparer struct {
	cat   *diagnostic.Catalog
	diags []diagnostic.Diagnostic
	stats Stats
}

// Segment compares the body lines of one segment pair and returns its
// diagnostics ordered by in-segment line index.
func Segment(key string, original, translated []segment.Line, cat *diagnostic.Catalog) []diagnostic.Diagnostic {
	if cat == nil {
		cat = diagnostic.English
	}
	c := &comparer{cat: cat}
	c.segment(key, original, translated)
	return c.diags
}

func (c *comparer) add(d diagnostic.Diagnostic) {
	c.diags = append(c.diags, d)
}

func (c *comparer) segment(key string, original, translated []segment.Line) {
	lenO, lenT := len(original), len(translated)

	if lenO > lenT {
		c.add(diagnostic.Diagnostic{
			Message:    c.cat.Format(diagnostic.MsgMissingLines, key, lenO-lenT, lenO, lenT),
			Kind:       diagnostic.KindLineCount,
			SegmentKey: key,
		})
	} else if lenT > lenO {
		c.add(diagnostic.Diagnostic{
			Message:    c.cat.Format(diagnostic.MsgExtraLines, key, lenT-lenO, lenO, lenT),
			Kind:       diagnostic.KindLineCount,
			SegmentKey: key,
		})
	}

	// Past the end of the original there is nothing to check against; the
	// surplus was reported above.
	for idx := 0; idx < lenO; idx++ {
		lineNo := idx + 1
		o := original[idx]
		location := c.cat.Format(diagnostic.MsgLocation, key, lineNo)

		if idx >= lenT {
			c.add(diagnostic.Diagnostic{
				Message:      location + " " + c.cat.Format(diagnostic.MsgMissingLine, textutil.Preview(o.Text, previewRunes)),
				Kind:         diagnostic.KindMissingLine,
				SegmentKey:   key,
				Line:         diagnostic.At(lineNo),
				OriginalLine: diagnostic.At(o.Index),
			})
			continue
		}

		t := translated[idx]
		oTrim, tTrim := strings.TrimSpace(o.Text), strings.TrimSpace(t.Text)

		c.stats.ComparedLines++
		if oTrim != tTrim {
			c.stats.ChangedLines++
		}

		if oTrim != "" && tTrim == "" {
			c.add(diagnostic.Diagnostic{
				Message:        location + " " + c.cat.Format(diagnostic.MsgEmptyLine),
				Kind:           diagnostic.KindEmptyLine,
				SegmentKey:     key,
				Line:           diagnostic.At(lineNo),
				OriginalLine:   diagnostic.At(o.Index),
				TranslatedLine: diagnostic.At(t.Index),
			})
			continue
		}

		detail := structure(oTrim, tTrim)
		if detail.Empty() {
			continue
		}
		c.add(diagnostic.Diagnostic{
			Message:        c.render(location, detail),
			Kind:           diagnostic.KindStructure,
			SegmentKey:     key,
			Line:           diagnostic.At(lineNo),
			OriginalLine:   diagnostic.At(o.Index),
			TranslatedLine: diagnostic.At(t.Index),
			Detail:         detail,
		})
	}
}

// structure compares the placeholder and directive inventories of two lines.
func structure(original, translated string) *diagnostic.Detail {
	oVars := directive.Placeholders(original)
	tVars := directive.Placeholders(translated)

	d := &diagnostic.Detail{
		MissingPlaceholders: directive.Subtract(oVars, tVars),
		ExtraPlaceholders:   directive.Subtract(tVars, oVars),
	}

	oGroups := directive.GroupByName(directive.Extract(original))
	tGroups := directive.GroupByName(directive.Extract(translated))

	oIndex := make(map[string]int, len(oGroups))
	for i, g := range oGroups {
		oIndex[g.Name] = i
	}
	tIndex := make(map[string]int, len(tGroups))
	for i, g := range tGroups {
		tIndex[g.Name] = i
	}

	for _, og := range oGroups {
		ti, shared := tIndex[og.Name]
		if !shared {
			d.MissingDirectives = append(d.MissingDirectives, og.Name)
			continue
		}
		compareOccurrences(d, og, tGroups[ti])
	}

	for _, tg := range tGroups {
		if _, shared := oIndex[tg.Name]; !shared {
			d.ExtraDirectives = append(d.ExtraDirectives, tg.Name)
		}
	}

	return d
}

// compareOccurrences checks a directive name present on both sides. Repeated
// occurrences are paired by position; unpaired ones only count towards the
// occurrence mismatch.
func compareOccurrences(d *diagnostic.Detail, og, tg directive.Group) {
	if len(og.Slots) != len(tg.Slots) {
		d.Occurrences = append(d.Occurrences, diagnostic.Occurrences{
			Name:       og.Name,
			Original:   len(og.Slots),
			Translated: len(tg.Slots),
		})
	}

	n := min(len(og.Slots), len(tg.Slots))
	for i := 0; i < n; i++ {
		o, t := og.Slots[i], tg.Slots[i]

		p := diagnostic.Parameters{
			Name:               og.Name,
			Occurrence:         i,
			OriginalDeclared:   o.Declared,
			TranslatedDeclared: t.Declared,
			TranslatedFilled:   t.Filled,
		}

		switch {
		case o.Declared != t.Declared:
			p.Issue = diagnostic.ParamCount
		// A slot left blank in the original cannot be required of the translation.
		case t.Filled < o.Declared && t.Filled < o.Filled:
			if t.Filled == 0 {
				p.Issue = diagnostic.ParamBlank
			} else {
				p.Issue = diagnostic.ParamPartial
			}
		default:
			continue
		}
		d.Parameters = append(d.Parameters, p)
	}
}

// render joins all sub-findings into one message behind the location prefix.
func (c *comparer) render(location string, d *diagnostic.Detail) string {
	parts := []string{location}

	if len(d.MissingDirectives) > 0 {
		parts = append(parts, c.cat.Format(diagnostic.MsgMissingTags, strings.Join(d.MissingDirectives, ", ")))
	}
	if len(d.MissingPlaceholders) > 0 {
		parts = append(parts, c.cat.Format(diagnostic.MsgMissingVars, strings.Join(d.MissingPlaceholders, ", ")))
	}
	if len(d.ExtraDirectives) > 0 {
		parts = append(parts, c.cat.Format(diagnostic.MsgExtraTags, strings.Join(d.ExtraDirectives, ", ")))
	}
	if len(d.ExtraPlaceholders) > 0 {
		parts = append(parts, c.cat.Format(diagnostic.MsgExtraVars, strings.Join(d.ExtraPlaceholders, ", ")))
	}

	for _, o := range d.Occurrences {
		if o.Translated < o.Original {
			parts = append(parts, c.cat.Format(diagnostic.MsgFewerOccurrences, o.Name, o.Original-o.Translated, o.Original, o.Translated))
		} else {
			parts = append(parts, c.cat.Format(diagnostic.MsgMoreOccurrences, o.Name, o.Translated-o.Original, o.Original, o.Translated))
		}
	}

	for _, p := range d.Parameters {
		switch p.Issue {
		case diagnostic.ParamCount:
			if p.TranslatedDeclared < p.OriginalDeclared {
				parts = append(parts, c.cat.Format(diagnostic.MsgFewerParams, p.Name, p.OriginalDeclared, p.TranslatedDeclared, p.OriginalDeclared-p.TranslatedDeclared))
			} else {
				parts = append(parts, c.cat.Format(diagnostic.MsgMoreParams, p.Name, p.OriginalDeclared, p.TranslatedDeclared, p.TranslatedDeclared-p.OriginalDeclared))
			}
		case diagnostic.ParamBlank:
			parts = append(parts, c.cat.Format(diagnostic.MsgBlankParams, p.Name, p.OriginalDeclared))
		case diagnostic.ParamPartial:
			parts = append(parts, c.cat.Format(diagnostic.MsgPartialParams, p.Name, p.TranslatedFilled, p.OriginalDeclared))
		}
	}

	return strings.Join(parts, "  ")
}
