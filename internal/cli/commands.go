package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tagcheck/internal/batch"
	"tagcheck/internal/cache"
	"tagcheck/internal/config"
	"tagcheck/internal/filewalker"
	"tagcheck/internal/regen"
	"tagcheck/internal/report"
)

func compareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <original> <translated>",
		Short: "Check one translated file against its original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.runner(cmd, false)
			if err != nil {
				return err
			}
			return a.single(cmd, runner, args[0], args[1])
		},
	}
}

func fixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fix <original> <translated>",
		Short: "Regenerate a translated file until it passes the check",
		Long: `fix checks a pair and, while the translation has issues, asks the
configured provider (--regen-cmd or --gemini) to regenerate it, up to
--max-attempts times.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.runner(cmd, true)
			if err != nil {
				return err
			}
			if runner.Driver == nil {
				return &ExitError{Code: ExitCodeError, Err: errors.New("no regeneration provider: set --regen-cmd or --gemini")}
			}
			return a.single(cmd, runner, args[0], args[1])
		},
	}
}

func batchCmd(a *app) *cobra.Command {
	var doneDir string

	cmd := &cobra.Command{
		Use:   "batch <raw-dir> [translated-dir]",
		Short: "Check every abc.txt / abc_vi.txt pair in a directory",
		Long: `batch pairs every original abc.txt in raw-dir with abc<suffix>.txt in
translated-dir (raw-dir when omitted), checks all pairs concurrently, prints a
summary and writes a report file when any pair fails.

With --regen-cmd or --gemini, failing pairs are regenerated and re-checked.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawDir, translatedDir := args[0], ""
			if len(args) == 2 {
				translatedDir = args[1]
			}
			if cmd.Flags().Changed("done-dir") {
				a.cfg.DoneDir = doneDir
			}
			return a.runBatch(cmd, rawDir, translatedDir)
		},
	}

	cmd.Flags().StringVar(&doneDir, "done-dir", "", "Move passing pairs into this directory")
	return cmd
}

// runner wires the batch runner from the loaded config. allowRegen enables
// the configured regeneration provider.
func (a *app) runner(cmd *cobra.Command, allowRegen bool) (*batch.Runner, error) {
	opts, err := a.options()
	if err != nil {
		return nil, &ExitError{Code: ExitCodeError, Err: err}
	}

	r := &batch.Runner{
		Options: opts,
		Workers: a.cfg.WorkerCount,
		Cache:   cache.NewSessionCache(),
		DoneDir: a.cfg.DoneDir,
		OnProgress: func(done, total int) {
			log.Debug().Int("done", done).Int("total", total).Msg("Progress")
		},
	}

	if allowRegen {
		provider, err := a.provider(cmd)
		if err != nil {
			return nil, &ExitError{Code: ExitCodeError, Err: err}
		}
		if provider != nil {
			r.Driver = &regen.Driver{
				Provider:    provider,
				MaxAttempts: a.cfg.MaxAttempts,
				Delay:       a.cfg.RetryDelay,
			}
		}
	}
	return r, nil
}

func (a *app) provider(cmd *cobra.Command) (regen.Provider, error) {
	if a.cfg.RegenCommand != "" {
		return regen.NewCommandProvider(a.cfg.RegenCommand), nil
	}
	useGemini, _ := cmd.Flags().GetBool("gemini")
	if !useGemini {
		return nil, nil
	}
	if a.cfg.GeminiAPIKey == "" {
		return nil, errors.New("--gemini needs GEMINI_API_KEY")
	}
	return regen.NewGeminiProvider(a.cfg.GeminiAPIKey, a.cfg.TranslationModel, a.cfg.TargetLanguage), nil
}

// single checks one pair and prints its report.
func (a *app) single(cmd *cobra.Command, runner *batch.Runner, original, translated string) error {
	pair := filewalker.Pair{
		Name:       filepath.Base(original),
		Original:   original,
		Translated: translated,
	}

	res := runner.Run(cmd.Context(), []filewalker.Pair{pair})[0]

	w, closeFn, err := a.reportWriter(cmd.OutOrStdout())
	if err != nil {
		return &ExitError{Code: ExitCodeError, Err: err}
	}
	defer closeFn()

	if a.cfg.Format == config.FormatText && res.Session != nil {
		for _, msg := range res.Session.Messages() {
			fmt.Fprintln(w, msg)
		}
	} else if a.cfg.Format != config.FormatText {
		if err := report.New([]batch.Result{res}, time.Now()).Write(w, a.cfg.Format); err != nil {
			return &ExitError{Code: ExitCodeError, Err: err}
		}
	}

	switch res.Status {
	case batch.StatusError:
		return &ExitError{Code: ExitCodeError, Err: res.Err}
	case batch.StatusIssues:
		return errIssues
	}
	return nil
}

func (a *app) runBatch(cmd *cobra.Command, rawDir, translatedDir string) error {
	pairs, err := filewalker.NewWalker(a.cfg.TranslatedSuffix).Pairs(rawDir, translatedDir)
	if err != nil {
		return &ExitError{Code: ExitCodeError, Err: fmt.Errorf("discover pairs: %w", err)}
	}
	if len(pairs) == 0 {
		return &ExitError{Code: ExitCodeError, Err: fmt.Errorf("no file pairs found (expected abc.txt and abc%s.txt)", a.cfg.TranslatedSuffix)}
	}

	runner, err := a.runner(cmd, true)
	if err != nil {
		return err
	}

	start := time.Now()
	results := runner.Run(cmd.Context(), pairs)
	rep := report.New(results, time.Now())

	log.Info().
		Int("files", rep.Summary.Total).
		Int("ok", rep.Summary.Passed).
		Int("issues", rep.Summary.WithIssues).
		Int("errors", rep.Summary.Errors).
		Dur("elapsed", time.Since(start)).
		Msg("Batch check complete")

	if err := rep.WriteSummary(cmd.OutOrStdout()); err != nil {
		return &ExitError{Code: ExitCodeError, Err: err}
	}

	if rep.Summary.Failed() || a.output != "" {
		path := a.output
		if path == "" {
			path = filepath.Join(a.cfg.ReportDir, report.FileName(a.cfg.Format, rep.GeneratedAt))
		}
		if err := writeReportFile(rep, path, a.cfg.Format); err != nil {
			return &ExitError{Code: ExitCodeError, Err: err}
		}
		log.Info().Str("path", path).Msg("Report written")
	}

	switch {
	case rep.Summary.Errors > 0:
		return &ExitError{Code: ExitCodeError, Err: fmt.Errorf("%d pair(s) could not be checked", rep.Summary.Errors)}
	case rep.Summary.WithIssues > 0:
		return errIssues
	}
	return nil
}

func writeReportFile(rep *report.Report, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := rep.Write(f, format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
