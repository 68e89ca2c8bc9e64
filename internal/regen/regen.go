// Package regen drives the regenerate-and-recheck loop: when a translated
// script fails the check, a Provider rewrites it and the pair is checked
// again, a bounded number of times.
package regen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tagcheck/internal/compare"
	"tagcheck/internal/diagnostic"
	"tagcheck/internal/filewalker"
	"tagcheck/internal/textutil"
)

var (
	// ErrProviderFailed means no attempt produced a comparable translation.
	ErrProviderFailed = errors.New("could not produce a comparable translation")
	// ErrUnchanged means a regeneration left the translated file as it was.
	ErrUnchanged = errors.New("regeneration left the translation unchanged")
)

// Provider rewrites the translated file of a pair. diags are the findings of
// the previous check and may be empty.
type Provider interface {
	Regenerate(ctx context.Context, pair filewalker.Pair, diags []diagnostic.Diagnostic) error
}

// CheckFunc compares the current contents of a pair.
type CheckFunc func(ctx context.Context, pair filewalker.Pair) (*compare.Session, error)

// Driver bounds how often a pair is regenerated.
type Driver struct {
	Provider    Provider
	MaxAttempts int
	// Delay is waited before every attempt after the first.
	Delay time.Duration
}

// Outcome is the final state of a pair after the loop.
type Outcome struct {
	// Session is the last successful check, nil if none succeeded.
	Session *compare.Session
	// Attempts is the number of regenerations tried.
	Attempts int
}

// Run checks pair and, while it has findings, regenerates and re-checks it.
// Findings left after the last attempt are returned in the outcome with a nil
// error; ErrProviderFailed is returned when no attempt produced a comparable
// translation.
func (d *Driver) Run(ctx context.Context, pair filewalker.Pair, check CheckFunc) (Outcome, error) {
	var out Outcome

	s, err := check(ctx, pair)
	switch {
	case err == nil:
		if s.OK() {
			out.Session = s
			return out, nil
		}
	case errors.Is(err, compare.ErrInsufficientInput):
		// An empty translation is regenerated like a failing one.
		log.Debug().Err(err).Str("file", pair.Name).Msg("Translation not comparable, regenerating")
	default:
		return out, err
	}
	out.Session = s

	if d.Provider == nil || d.MaxAttempts <= 0 {
		return out, err
	}

	var diags []diagnostic.Diagnostic
	if s != nil {
		diags = s.Diagnostics()
	}

	var lastErr error
	produced := false

	for attempt := 1; attempt <= d.MaxAttempts; attempt++ {
		if attempt > 1 && d.Delay > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(d.Delay):
			}
		}
		out.Attempts = attempt

		log.Info().
			Str("file", pair.Name).
			Int("attempt", attempt).
			Int("max_attempts", d.MaxAttempts).
			Int("diagnostics", len(diags)).
			Msg("Regenerating translation")

		before := contentHash(pair.Translated)
		if err := d.Provider.Regenerate(ctx, pair, diags); err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			lastErr = err
			log.Warn().Err(err).Str("file", pair.Name).Int("attempt", attempt).Msg("Regeneration failed")
			continue
		}
		if contentHash(pair.Translated) == before {
			lastErr = ErrUnchanged
			log.Warn().Str("file", pair.Name).Int("attempt", attempt).Msg("Regeneration produced identical content")
			continue
		}

		s, err := check(ctx, pair)
		if errors.Is(err, compare.ErrInsufficientInput) {
			lastErr = err
			continue
		}
		if err != nil {
			return out, err
		}

		produced = true
		out.Session = s
		if s.OK() {
			log.Info().Str("file", pair.Name).Int("attempt", attempt).Msg("Translation fixed")
			return out, nil
		}
		diags = s.Diagnostics()
	}

	if !produced {
		if lastErr == nil {
			return out, ErrProviderFailed
		}
		return out, fmt.Errorf("%w after %d attempt(s): %w", ErrProviderFailed, out.Attempts, lastErr)
	}
	return out, nil
}

// contentHash hashes a file's content; unreadable files hash as empty.
func contentHash(path string) string {
	text, err := filewalker.ReadText(path)
	if err != nil {
		return ""
	}
	return textutil.Hash(text)
}
