// Package batch checks many file pairs concurrently.
package batch

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"tagcheck/internal/cache"
	"tagcheck/internal/compare"
	"tagcheck/internal/diagnostic"
	"tagcheck/internal/filewalker"
	"tagcheck/internal/regen"
	"tagcheck/internal/worker"
)

// Status classifies a pair after checking.
type Status string

const (
	StatusPass   Status = "pass"
	StatusIssues Status = "issues"
	StatusError  Status = "error"
)

// Result is the outcome for one pair.
type Result struct {
	Pair   filewalker.Pair
	Status Status
	// Session is nil when the pair could not be compared.
	Session *compare.Session
	// Attempts counts regenerations.
	Attempts int
	Err      error
	// Moved reports whether the pair was moved to the done directory.
	Moved bool
}

// Diagnostics returns the pair's findings, if any.
func (r Result) Diagnostics() []diagnostic.Diagnostic {
	if r.Session == nil {
		return nil
	}
	return r.Session.Diagnostics()
}

// Runner checks pairs with a worker pool. With a Driver set, failing pairs go
// through the regeneration loop.
type Runner struct {
	Options compare.Options
	Workers int
	Cache   *cache.SessionCache
	Driver  *regen.Driver
	// DoneDir, if set, receives passing pairs.
	DoneDir string
	// OnProgress is called after each pair.
	OnProgress func(done, total int)
}

// Check reads and compares one pair, consulting the cache.
func (r *Runner) Check(_ context.Context, pair filewalker.Pair) (*compare.Session, error) {
	original, translated, err := filewalker.ReadPair(pair)
	if err != nil {
		return nil, err
	}

	var key string
	if r.Cache != nil {
		key = cache.Key(original, translated, r.variant())
		if s, ok := r.Cache.Get(key); ok {
			log.Debug().Str("file", pair.Name).Msg("Using cached comparison")
			return s, nil
		}
	}

	s, err := compare.Check(original, translated, r.Options)
	if err != nil {
		return nil, err
	}
	if r.Cache != nil {
		r.Cache.Set(key, s)
	}
	return s, nil
}

// variant names the settings that affect a comparison.
func (r *Runner) variant() string {
	v := "header"
	if r.Options.Segmenter != nil {
		v = r.Options.Segmenter.Name()
		if p, ok := r.Options.Segmenter.(interface{ Prefix() string }); ok {
			v += "|" + p.Prefix()
		}
	}
	if r.Options.Catalog != nil {
		v += "|" + r.Options.Catalog.Lang()
	}
	return v
}

// Run processes every pair and returns results in input order.
func (r *Runner) Run(ctx context.Context, pairs []filewalker.Pair) []Result {
	pool := worker.NewPool(r.Workers, func(ctx context.Context, p filewalker.Pair) (Result, error) {
		res := r.process(ctx, p)
		return res, res.Err
	})
	pool.OnDone = r.OnProgress

	jobs := pool.Execute(ctx, pairs)

	results := make([]Result, len(jobs))
	for i, j := range jobs {
		results[i] = j.Result
		if j.Result.Status == "" {
			// never started
			results[i] = Result{Pair: j.Input, Status: StatusError, Err: j.Err}
		}
	}
	return results
}

func (r *Runner) process(ctx context.Context, pair filewalker.Pair) Result {
	res := Result{Pair: pair}

	if r.Driver != nil {
		out, err := r.Driver.Run(ctx, pair, r.Check)
		res.Session, res.Attempts, res.Err = out.Session, out.Attempts, err
	} else {
		res.Session, res.Err = r.Check(ctx, pair)
	}

	switch {
	case res.Err != nil:
		res.Status = StatusError
		if !errors.Is(res.Err, context.Canceled) {
			log.Error().Err(res.Err).Str("file", pair.Name).Msg("Check failed")
		}
		return res
	case res.Session.OK():
		res.Status = StatusPass
		log.Info().Str("file", pair.Name).Int("attempts", res.Attempts).Msg("Translation OK")
	default:
		res.Status = StatusIssues
		log.Warn().Str("file", pair.Name).Int("diagnostics", res.Session.Len()).Msg("Translation has issues")
	}

	if res.Status == StatusPass && r.DoneDir != "" {
		moved, err := filewalker.MoveDone(pair, r.DoneDir)
		if err != nil {
			log.Error().Err(err).Str("file", pair.Name).Msg("Move checked pair")
		} else {
			res.Pair, res.Moved = moved, true
		}
	}
	return res
}

// Summary totals a batch.
type Summary struct {
	Total      int `json:"total"`
	Passed     int `json:"passed"`
	WithIssues int `json:"with_issues"`
	Errors     int `json:"errors"`
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusIssues:
			s.WithIssues++
		default:
			s.Errors++
		}
	}
	return s
}

// Failed reports whether any pair did not pass.
func (s Summary) Failed() bool { return s.Passed != s.Total }
