package compare

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"tagcheck/internal/diagnostic"
	"tagcheck/internal/textutil"
)

// ErrInsufficientInput is returned when either document is empty or cannot
// be read as text.
var ErrInsufficientInput = errors.New("insufficient input")

// Session is the immutable result of one comparison.
type Session struct {
	ID             uuid.UUID
	Mode           string
	Lang           string
	OriginalHash   string
	TranslatedHash string
	Stats          Stats

	diags []diagnostic.Diagnostic
}

// Check validates both documents and compares them.
func Check(original, translated string, opts Options) (*Session, error) {
	if err := validate("original", original); err != nil {
		return nil, err
	}
	if err := validate("translated", translated); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	c := run(original, translated, opts)

	return &Session{
		ID:             uuid.New(),
		Mode:           opts.Segmenter.Name(),
		Lang:           opts.Catalog.Lang(),
		OriginalHash:   textutil.Hash(original),
		TranslatedHash: textutil.Hash(translated),
		Stats:          c.stats,
		diags:          c.diags,
	}, nil
}

func validate(side, text string) error {
	if textutil.IsBlank(text) {
		return fmt.Errorf("%w: %s document is empty", ErrInsufficientInput, side)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: %s document is not valid UTF-8", ErrInsufficientInput, side)
	}
	return nil
}

// Diagnostics returns a copy of the findings in report order.
func (s *Session) Diagnostics() []diagnostic.Diagnostic {
	return diagnostic.Clone(s.diags)
}

// Len returns the number of findings.
func (s *Session) Len() int { return len(s.diags) }

// OK reports whether the translation passed every check.
func (s *Session) OK() bool { return len(s.diags) == 0 }

// Messages returns the rendered messages, or the clean message when there
// are no findings.
func (s *Session) Messages() []string {
	if s.OK() {
		cat, err := diagnostic.CatalogFor(s.Lang)
		if err != nil {
			cat = diagnostic.English
		}
		return []string{cat.Format(diagnostic.MsgClean)}
	}
	out := make([]string, len(s.diags))
	for i, d := range s.diags {
		out[i] = d.Message
	}
	return out
}
