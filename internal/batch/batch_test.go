package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagcheck/internal/cache"
	"tagcheck/internal/compare"
	"tagcheck/internal/diagnostic"
	"tagcheck/internal/filewalker"
	"tagcheck/internal/regen"
)

func writePair(t *testing.T, dir, name, original, translated string) filewalker.Pair {
	t.Helper()
	p := filewalker.Pair{
		Name:       name + ".txt",
		Original:   filepath.Join(dir, name+".txt"),
		Translated: filepath.Join(dir, name+"_vi.txt"),
	}
	require.NoError(t, os.WriteFile(p.Original, []byte(original), 0644))
	require.NoError(t, os.WriteFile(p.Translated, []byte(translated), 0644))
	return p
}

func TestRunClassifiesPairs(t *testing.T) {
	dir := t.TempDir()
	pairs := []filewalker.Pair{
		writePair(t, dir, "ok", "Txt_A\n<cf>hi\n", "Txt_A\n<cf>chào\n"),
		writePair(t, dir, "bad", "Txt_A\n<cf>hi\n", "Txt_A\nchào\n"),
		writePair(t, dir, "empty", "Txt_A\nhi\n", ""),
		{Name: "gone.txt", Original: filepath.Join(dir, "gone.txt"), Translated: filepath.Join(dir, "gone_vi.txt")},
	}

	r := &Runner{Workers: 2}
	results := r.Run(context.Background(), pairs)
	require.Len(t, results, 4)

	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusIssues, results[1].Status)
	assert.Len(t, results[1].Diagnostics(), 1)
	assert.Equal(t, StatusError, results[2].Status)
	assert.ErrorIs(t, results[2].Err, compare.ErrInsufficientInput)
	assert.Equal(t, StatusError, results[3].Status)
	assert.Nil(t, results[3].Diagnostics())

	assert.Equal(t, Summary{Total: 4, Passed: 1, WithIssues: 1, Errors: 2}, Summarize(results))
	assert.True(t, Summarize(results).Failed())
}

func TestRunMovesPassingPairs(t *testing.T) {
	dir := t.TempDir()
	done := filepath.Join(dir, "end_done")
	pairs := []filewalker.Pair{
		writePair(t, dir, "ok", "Txt_A\nhi\n", "Txt_A\nchào\n"),
		writePair(t, dir, "bad", "Txt_A\n{X}\n", "Txt_A\nchào\n"),
	}

	r := &Runner{Workers: 1, DoneDir: done}
	results := r.Run(context.Background(), pairs)

	assert.True(t, results[0].Moved)
	assert.FileExists(t, filepath.Join(done, "ok.txt"))
	assert.FileExists(t, filepath.Join(done, "ok_vi.txt"))
	assert.False(t, results[1].Moved)
	assert.FileExists(t, pairs[1].Original)
}

func TestCheckUsesCache(t *testing.T) {
	dir := t.TempDir()
	p := writePair(t, dir, "a", "Txt_A\nhi\n", "Txt_A\nchào\n")

	c := cache.NewSessionCache()
	r := &Runner{Cache: c}

	first, err := r.Check(context.Background(), p)
	require.NoError(t, err)
	second, err := r.Check(context.Background(), p)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Hits())

	// a different catalog is a different cache entry
	r.Options.Catalog = diagnostic.Vietnamese
	third, err := r.Check(context.Background(), p)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

type copyOriginal struct{}

func (copyOriginal) Regenerate(_ context.Context, p filewalker.Pair, _ []diagnostic.Diagnostic) error {
	data, err := os.ReadFile(p.Original)
	if err != nil {
		return err
	}
	return os.WriteFile(p.Translated, data, 0644)
}

type failing struct{}

func (failing) Regenerate(context.Context, filewalker.Pair, []diagnostic.Diagnostic) error {
	return errors.New("offline")
}

func TestRunWithDriver(t *testing.T) {
	dir := t.TempDir()
	p := writePair(t, dir, "bad", "Txt_A\n<cf>hi\n", "Txt_A\nchào\n")

	r := &Runner{Workers: 1, Driver: &regen.Driver{Provider: copyOriginal{}, MaxAttempts: 2}}
	results := r.Run(context.Background(), []filewalker.Pair{p})

	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, 1, results[0].Attempts)
}

func TestRunProviderFailureIsError(t *testing.T) {
	dir := t.TempDir()
	p := writePair(t, dir, "bad", "Txt_A\n<cf>hi\n", "Txt_A\nchào\n")

	r := &Runner{Workers: 1, Driver: &regen.Driver{Provider: failing{}, MaxAttempts: 1}}
	results := r.Run(context.Background(), []filewalker.Pair{p})

	assert.Equal(t, StatusError, results[0].Status)
	assert.ErrorIs(t, results[0].Err, regen.ErrProviderFailed)
	// findings from the last check are kept next to the error
	assert.Len(t, results[0].Diagnostics(), 1)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	results := (&Runner{}).Run(ctx, []filewalker.Pair{writePair(t, dir, "a", "x", "x")})
	require.Len(t, results, 1)
	assert.Equal(t, StatusError, results[0].Status)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
