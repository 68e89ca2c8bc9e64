package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tagcheck/internal/compare"
	"tagcheck/internal/config"
	"tagcheck/internal/diagnostic"
	"tagcheck/internal/segment"
)

// Version is set at build time.
var Version = "dev"

// Exit codes.
const (
	ExitCodeOK     = 0
	ExitCodeIssues = 1
	ExitCodeError  = 2
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// errIssues signals that checks ran and found problems.
var errIssues = &ExitError{Code: ExitCodeIssues, Err: errors.New("translation has issues")}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})

	ctx, cancel := setupContext()
	defer cancel()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code != ExitCodeIssues {
			log.Error().Err(exitErr.Err).Msg("Command failed")
		}
		return exitErr.Code
	}
	log.Error().Err(err).Msg("Command failed")
	return ExitCodeError
}

// app holds the settings shared by all commands.
type app struct {
	configPath string
	cfg        *config.Config
	output     string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tagcheck",
		Short: "Check that translated game scripts keep their tags and placeholders",
		Long: `tagcheck compares a translated game script with its original and reports
every segment, line, directive (<Name(a,b)>) and placeholder ({NAME}) that
the translation lost, gained or broke.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.configPath, "config", "tagcheck.yaml", "Path to a YAML config file")
	f.String("mode", "", "Segment convention: header or record")
	f.String("prefix", "", "Header line prefix in header mode")
	f.String("suffix", "", "Translated file name suffix (abc.txt -> abc<suffix>.txt)")
	f.String("lang", "", "Message language: en or vi")
	f.String("format", "", "Report format: text, json, markdown or html")
	f.StringVarP(&a.output, "output", "o", "", "Write the report to this file")
	f.String("log-level", "", "Log level: trace, debug, info, warn, error")
	f.Int("workers", 0, "Number of pairs checked concurrently")
	f.String("regen-cmd", "", "Shell command that regenerates a translated file")
	f.Bool("gemini", false, "Regenerate failing translations with the Gemini API")
	f.Int("max-attempts", 0, "Maximum regeneration attempts per pair")

	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(batchCmd(a))
	rootCmd.AddCommand(fixCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// load merges config file, environment and flags, in that order.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return &ExitError{Code: ExitCodeError, Err: fmt.Errorf("load config: %w", err)}
	}

	f := cmd.Flags()
	overrideString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	overrideInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	overrideString("mode", &cfg.Mode)
	overrideString("prefix", &cfg.HeaderPrefix)
	overrideString("suffix", &cfg.TranslatedSuffix)
	overrideString("lang", &cfg.Lang)
	overrideString("format", &cfg.Format)
	overrideString("log-level", &cfg.LogLevel)
	overrideString("regen-cmd", &cfg.RegenCommand)
	overrideInt("workers", &cfg.WorkerCount)
	overrideInt("max-attempts", &cfg.MaxAttempts)

	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitCodeError, Err: fmt.Errorf("invalid config: %w", err)}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &ExitError{Code: ExitCodeError, Err: err}
	}
	zerolog.SetGlobalLevel(level)

	a.cfg = cfg
	return nil
}

// options builds comparison options from the loaded config.
func (a *app) options() (compare.Options, error) {
	seg, err := segment.Lookup(a.cfg.Mode, a.cfg.HeaderPrefix)
	if err != nil {
		return compare.Options{}, err
	}
	cat, err := diagnostic.CatalogFor(a.cfg.Lang)
	if err != nil {
		return compare.Options{}, err
	}
	return compare.Options{Segmenter: seg, Catalog: cat}, nil
}

// reportWriter returns the --output file when given, otherwise w.
func (a *app) reportWriter(w io.Writer) (io.Writer, func() error, error) {
	if a.output == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(a.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, f.Close, nil
}

func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tagcheck %s\n", Version)
		},
	}
}
