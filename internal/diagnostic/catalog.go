package diagnostic

import (
	"fmt"
	"strings"
)

// MessageID identifies a message template.
type MessageID string

const (
	MsgMissingSegment   MessageID = "missing_segment"
	MsgExtraSegment     MessageID = "extra_segment"
	MsgMissingLines     MessageID = "missing_lines"
	MsgExtraLines       MessageID = "extra_lines"
	MsgLocation         MessageID = "location"
	MsgMissingLine      MessageID = "missing_line"
	MsgEmptyLine        MessageID = "empty_line"
	MsgMissingTags      MessageID = "missing_tags"
	MsgMissingVars      MessageID = "missing_vars"
	MsgExtraTags        MessageID = "extra_tags"
	MsgExtraVars        MessageID = "extra_vars"
	MsgFewerOccurrences MessageID = "fewer_occurrences"
	MsgMoreOccurrences  MessageID = "more_occurrences"
	MsgFewerParams      MessageID = "fewer_params"
	MsgMoreParams       MessageID = "more_params"
	MsgBlankParams      MessageID = "blank_params"
	MsgPartialParams    MessageID = "partial_params"
	MsgClean            MessageID = "clean"
)

// Languages supported by the built-in catalogs.
const (
	LangEnglish    = "en"
	LangVietnamese = "vi"
)

var enMessages = map[MessageID]string{
	MsgMissingSegment:   "[Missing key] %s",
	MsgExtraSegment:     "[Extra key] %s",
	MsgMissingLines:     "[%s] Missing %d line(s) in translation (original: %d, translated: %d).",
	MsgExtraLines:       "[%s] Extra %d line(s) in translation (original: %d, translated: %d).",
	MsgLocation:         "[%s, line %d]",
	MsgMissingLine:      "Missing translated line. Original: %s",
	MsgEmptyLine:        "Translated line is empty but the original has content.",
	MsgMissingTags:      "Missing tag: %s",
	MsgMissingVars:      "Missing variable: %s",
	MsgExtraTags:        "Extra tag: %s",
	MsgExtraVars:        "Extra variable: %s",
	MsgFewerOccurrences: "Tag %s: missing %d occurrence(s) (original: %d, translated: %d)",
	MsgMoreOccurrences:  "Tag %s: extra %d occurrence(s) (original: %d, translated: %d)",
	MsgFewerParams:      "Tag %s: original has %d parameter(s), translation has %d (%d missing)",
	MsgMoreParams:       "Tag %s: original has %d parameter(s), translation has %d (%d extra)",
	MsgBlankParams:      "Tag %s: parameters left entirely blank (expected %d)",
	MsgPartialParams:    "Tag %s: only %d of %d parameter(s) filled",
	MsgClean:            "OK! No missing lines, tags or variables found.",
}

var viMessages = map[MessageID]string{
	MsgMissingSegment:   "[Thiếu key] %s",
	MsgExtraSegment:     "[Key dư] %s",
	MsgMissingLines:     "[%s] Thiếu %d dòng trong bản dịch (gốc: %d, dịch: %d).",
	MsgExtraLines:       "[%s] Dư %d dòng trong bản dịch (gốc: %d, dịch: %d).",
	MsgLocation:         "[%s, dòng %d]",
	MsgMissingLine:      "Thiếu dòng dịch. Gốc: %s",
	MsgEmptyLine:        "Dòng dịch trống nhưng gốc có nội dung.",
	MsgMissingTags:      "Thiếu tag: %s",
	MsgMissingVars:      "Thiếu biến: %s",
	MsgExtraTags:        "Dư tag: %s",
	MsgExtraVars:        "Dư biến: %s",
	MsgFewerOccurrences: "Tag %s: thiếu %d lần xuất hiện (gốc: %d, dịch: %d)",
	MsgMoreOccurrences:  "Tag %s: dư %d lần xuất hiện (gốc: %d, dịch: %d)",
	MsgFewerParams:      "Tag %s: Gốc có %d tham số, dịch có %d tham số (thiếu %d)",
	MsgMoreParams:       "Tag %s: Gốc có %d tham số, dịch có %d tham số (dư %d)",
	MsgBlankParams:      "Tag %s: bỏ trống toàn bộ tham số (gốc có %d)",
	MsgPartialParams:    "Tag %s: chỉ điền %d/%d tham số",
	MsgClean:            "OK! Không phát hiện thiếu dòng/tag/biến.",
}

// Catalog renders diagnostic messages in one language.
type Catalog struct {
	lang     string
	messages map[MessageID]string
}

// English is the default catalog.
var English = &Catalog{lang: LangEnglish, messages: enMessages}

// Vietnamese reproduces the phrasing of the original checking tool.
var Vietnamese = &Catalog{lang: LangVietnamese, messages: viMessages}

// CatalogFor returns the catalog for a language code.
func CatalogFor(lang string) (*Catalog, error) {
	switch strings.ToLower(lang) {
	case "", LangEnglish:
		return English, nil
	case LangVietnamese:
		return Vietnamese, nil
	default:
		return nil, fmt.Errorf("unsupported message language %q", lang)
	}
}

// Lang returns the language code of the catalog.
func (c *Catalog) Lang() string { return c.lang }

// Format renders message id with args.
func (c *Catalog) Format(id MessageID, args ...any) string {
	tmpl, ok := c.messages[id]
	if !ok {
		tmpl = enMessages[id]
	}
	return fmt.Sprintf(tmpl, args...)
}
