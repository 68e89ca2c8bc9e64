package regen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"

	"tagcheck/internal/diagnostic"
	"tagcheck/internal/filewalker"
	"tagcheck/internal/textutil"
)

// CommandProvider regenerates a translation by running a shell command.
// "{original}", "{translated}" and "{name}" in Command are replaced with the
// shell-quoted pair paths and name. The command receives a JSON Request on
// stdin and is expected to rewrite the translated file.
type CommandProvider struct {
	Command string
	// Shell runs the command line; defaults to sh -c (cmd /C on Windows).
	Shell []string
}

// Request is the JSON document written to the command's stdin.
type Request struct {
	Name        string                  `json:"name"`
	Original    string                  `json:"original"`
	Translated  string                  `json:"translated"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// NewCommandProvider creates a provider for a command template.
func NewCommandProvider(command string) *CommandProvider {
	return &CommandProvider{Command: command}
}

func (c *CommandProvider) shell() []string {
	if len(c.Shell) > 0 {
		return c.Shell
	}
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}

// CommandLine returns the command with pair values substituted.
func (c *CommandProvider) CommandLine(pair filewalker.Pair) string {
	return strings.NewReplacer(
		"{original}", shellQuote(pair.Original),
		"{translated}", shellQuote(pair.Translated),
		"{name}", shellQuote(pair.Name),
	).Replace(c.Command)
}

// Regenerate implements Provider.
func (c *CommandProvider) Regenerate(ctx context.Context, pair filewalker.Pair, diags []diagnostic.Diagnostic) error {
	if diags == nil {
		diags = []diagnostic.Diagnostic{}
	}
	payload, err := json.Marshal(Request{
		Name:        pair.Name,
		Original:    pair.Original,
		Translated:  pair.Translated,
		Diagnostics: diags,
	})
	if err != nil {
		return fmt.Errorf("marshal regen request: %w", err)
	}

	sh := c.shell()
	args := append(append([]string{}, sh[1:]...), c.CommandLine(pair))
	cmd := exec.CommandContext(ctx, sh[0], args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("regen command: %w: %s", err, textutil.Truncate(strings.TrimSpace(stderr.String()), errorBodyRunes))
	}
	if len(out) > 0 {
		log.Debug().Str("file", pair.Name).Str("stdout", strings.TrimSpace(string(out))).Msg("Regen command output")
	}
	return nil
}

func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
