package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"tagcheck/internal/diagnostic"
	"tagcheck/internal/segment"
)

// Output formats understood by the report writer.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

type Config struct {
	// Mode selects the segment convention: header or record.
	Mode string `yaml:"mode"`
	// HeaderPrefix marks segment header lines in header mode.
	HeaderPrefix string `yaml:"header_prefix"`
	// TranslatedSuffix is appended to an original file's stem to name its
	// translation (abc.txt -> abc_vi.txt).
	TranslatedSuffix string `yaml:"translated_suffix"`
	// Lang selects the diagnostic message catalog.
	Lang string `yaml:"lang"`
	// Format is the report format.
	Format string `yaml:"format"`
	// ReportDir is where batch reports are written when no output is given.
	ReportDir string `yaml:"report_dir"`
	// DoneDir, when set, receives pairs that pass the check.
	DoneDir  string `yaml:"done_dir"`
	LogLevel string `yaml:"log_level"`

	WorkerCount int `yaml:"workers"`

	// MaxAttempts bounds regeneration rounds per pair.
	MaxAttempts int `yaml:"max_attempts"`
	// RetryDelay is the pause between a regeneration and its re-check.
	// Read from YAML as a duration string by mergeFile.
	RetryDelay time.Duration `yaml:"-"`
	// RegenCommand is a shell command that rewrites a translated file.
	RegenCommand string `yaml:"regen_cmd"`

	// Gemini settings for the built-in regeneration provider.
	GeminiAPIKey     string `yaml:"-"`
	TranslationModel string `yaml:"translation_model"`
	TargetLanguage   string `yaml:"target_language"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Mode:             segment.ModeHeader,
		HeaderPrefix:     segment.DefaultHeaderPrefix,
		TranslatedSuffix: "_vi",
		Lang:             diagnostic.LangEnglish,
		Format:           FormatText,
		ReportDir:        ".",
		LogLevel:         "info",
		WorkerCount:      8,
		MaxAttempts:      3,
		RetryDelay:       2 * time.Second,
		TranslationModel: "gemini-2.5-flash",
		TargetLanguage:   "Vietnamese",
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty or missing), then .env and the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("Config file not found, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Durations are written as strings ("1500ms", "2s").
	type yamlConfig struct {
		Config     `yaml:",inline"`
		RetryDelay string `yaml:"retry_delay"`
	}

	var fc yamlConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Mode != "" {
		c.Mode = fc.Mode
	}
	if fc.HeaderPrefix != "" {
		c.HeaderPrefix = fc.HeaderPrefix
	}
	if fc.TranslatedSuffix != "" {
		c.TranslatedSuffix = fc.TranslatedSuffix
	}
	if fc.Lang != "" {
		c.Lang = fc.Lang
	}
	if fc.Format != "" {
		c.Format = fc.Format
	}
	if fc.ReportDir != "" {
		c.ReportDir = fc.ReportDir
	}
	if fc.DoneDir != "" {
		c.DoneDir = fc.DoneDir
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.WorkerCount != 0 {
		c.WorkerCount = fc.WorkerCount
	}
	if fc.MaxAttempts != 0 {
		c.MaxAttempts = fc.MaxAttempts
	}
	if fc.RetryDelay != "" {
		d, err := time.ParseDuration(fc.RetryDelay)
		if err != nil {
			return fmt.Errorf("invalid retry_delay %q: %w", fc.RetryDelay, err)
		}
		c.RetryDelay = d
	}
	if fc.RegenCommand != "" {
		c.RegenCommand = fc.RegenCommand
	}
	if fc.TranslationModel != "" {
		c.TranslationModel = fc.TranslationModel
	}
	if fc.TargetLanguage != "" {
		c.TargetLanguage = fc.TargetLanguage
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.Mode = getEnv("TAGCHECK_MODE", c.Mode)
	c.HeaderPrefix = getEnv("TAGCHECK_HEADER_PREFIX", c.HeaderPrefix)
	c.TranslatedSuffix = getEnv("TAGCHECK_TRANSLATED_SUFFIX", c.TranslatedSuffix)
	c.Lang = getEnv("TAGCHECK_LANG", c.Lang)
	c.Format = getEnv("TAGCHECK_FORMAT", c.Format)
	c.ReportDir = getEnv("TAGCHECK_REPORT_DIR", c.ReportDir)
	c.DoneDir = getEnv("TAGCHECK_DONE_DIR", c.DoneDir)
	c.LogLevel = getEnv("TAGCHECK_LOG_LEVEL", c.LogLevel)
	c.WorkerCount = getEnvInt("TAGCHECK_WORKERS", c.WorkerCount)
	c.MaxAttempts = getEnvInt("TAGCHECK_MAX_ATTEMPTS", c.MaxAttempts)
	c.RegenCommand = getEnv("TAGCHECK_REGEN_CMD", c.RegenCommand)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.TranslationModel = getEnv("TRANSLATION_MODEL", c.TranslationModel)
	c.TargetLanguage = getEnv("TAGCHECK_TARGET_LANGUAGE", c.TargetLanguage)

	if v := os.Getenv("TAGCHECK_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TAGCHECK_RETRY_DELAY %q: %w", v, err)
		}
		c.RetryDelay = d
	}
	return nil
}

// Validate rejects settings the tool cannot run with.
func (c *Config) Validate() error {
	if _, err := segment.Lookup(c.Mode, c.HeaderPrefix); err != nil {
		return err
	}
	if c.Mode != segment.ModeRecord && strings.TrimSpace(c.HeaderPrefix) == "" {
		return fmt.Errorf("header_prefix cannot be empty in %s mode", segment.ModeHeader)
	}
	if _, err := diagnostic.CatalogFor(c.Lang); err != nil {
		return err
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, json, markdown, html", c.Format)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.TranslatedSuffix == "" {
		return fmt.Errorf("translated_suffix cannot be empty")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.WorkerCount)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be > 0, got %d", c.MaxAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0, got %v", c.RetryDelay)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-integer environment value")
		return fallback
	}
	return n
}
