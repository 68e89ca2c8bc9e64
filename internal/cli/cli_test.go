package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))

	err := cmd.Execute()
	return out.String(), err
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func assertExit(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "want ExitError, got %v", err)
	assert.Equal(t, code, exitErr.Code)
}

func TestCompareClean(t *testing.T) {
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\n<cf>Hello {NAME}\n")
	tr := write(t, dir, "a_vi.txt", "Txt_A\n<cf>Xin chào {NAME}\n")

	out, err := run(t, "compare", o, tr)
	require.NoError(t, err)
	assert.Equal(t, "OK! No missing lines, tags or variables found.\n", out)
}

func TestCompareIssues(t *testing.T) {
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\n<cf>Hello {NAME}\n")
	tr := write(t, dir, "a_vi.txt", "Txt_A\nXin chào\n")

	out, err := run(t, "compare", o, tr)
	assertExit(t, err, ExitCodeIssues)
	assert.Equal(t, "[Txt_A, line 1]  Missing tag: cf  Missing variable: {NAME}\n", out)

	out, err = run(t, "compare", "--lang", "vi", o, tr)
	assertExit(t, err, ExitCodeIssues)
	assert.Contains(t, out, "Thiếu tag: cf")
}

func TestCompareJSON(t *testing.T) {
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\nx\nTxt_B\ny\n")
	tr := write(t, dir, "a_vi.txt", "Txt_A\nx\n")

	out, err := run(t, "compare", "--format", "json", o, tr)
	assertExit(t, err, ExitCodeIssues)

	var rep struct {
		Entries []struct {
			Diagnostics []struct {
				Kind       string `json:"kind"`
				SegmentKey string `json:"segment_key"`
			} `json:"diagnostics"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Entries, 1)
	require.Len(t, rep.Entries[0].Diagnostics, 1)
	assert.Equal(t, "missing_segment", rep.Entries[0].Diagnostics[0].Kind)
	assert.Equal(t, "Txt_B", rep.Entries[0].Diagnostics[0].SegmentKey)
}

func TestCompareRecordMode(t *testing.T) {
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "SelfId=7\nText=<cf>Hello\n")
	tr := write(t, dir, "a_vi.txt", "SelfId=7\nText=Xin chào\n")

	out, err := run(t, "compare", "--mode", "record", o, tr)
	assertExit(t, err, ExitCodeIssues)
	assert.Contains(t, out, "[7, line 1]")
}

func TestCompareInsufficientInput(t *testing.T) {
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\nx\n")
	tr := write(t, dir, "a_vi.txt", "")

	_, err := run(t, "compare", o, tr)
	assertExit(t, err, ExitCodeError)
}

func TestInvalidFlagValue(t *testing.T) {
	_, err := run(t, "compare", "--mode", "xml", "a", "b")
	assertExit(t, err, ExitCodeError)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "good.txt", "Txt_A\n<cf>hi\n")
	write(t, dir, "good_vi.txt", "Txt_A\n<cf>chào\n")
	write(t, dir, "bad.txt", "Txt_A\n<cf>hi\n")
	write(t, dir, "bad_vi.txt", "Txt_A\nchào\n")
	reportPath := filepath.Join(t.TempDir(), "report.md")

	out, err := run(t, "batch", dir, "--format", "markdown", "-o", reportPath)
	assertExit(t, err, ExitCodeIssues)
	assert.Contains(t, out, "good.txt")
	assert.Contains(t, out, "ISSUES")
	assert.Contains(t, out, "Total: 2  OK: 1  Issues: 1  Errors: 0")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## bad.txt (issues)")
}

func TestBatchDefaultReportLocation(t *testing.T) {
	dir := t.TempDir()
	reports := t.TempDir()
	t.Setenv("TAGCHECK_REPORT_DIR", reports)
	write(t, dir, "bad.txt", "Txt_A\n{X}\n")
	write(t, dir, "bad_vi.txt", "Txt_A\nchào\n")

	_, err := run(t, "batch", dir)
	assertExit(t, err, ExitCodeIssues)

	matches, err := filepath.Glob(filepath.Join(reports, "check_report_*.txt"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestBatchAllCleanMovesPairs(t *testing.T) {
	dir := t.TempDir()
	done := filepath.Join(t.TempDir(), "end_done")
	write(t, dir, "good.txt", "Txt_A\nhi\n")
	write(t, dir, "good_vi.txt", "Txt_A\nchào\n")

	_, err := run(t, "batch", dir, "--done-dir", done)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(done, "good_vi.txt"))
}

func TestBatchNoPairs(t *testing.T) {
	_, err := run(t, "batch", t.TempDir())
	assertExit(t, err, ExitCodeError)
}

func TestFixWithCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\n<cf>Hello\n")
	tr := write(t, dir, "a_vi.txt", "Txt_A\nXin chào\n")

	out, err := run(t, "fix", o, tr, "--regen-cmd", "cp {original} {translated}", "--max-attempts", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "OK!")

	data, err := os.ReadFile(tr)
	require.NoError(t, err)
	assert.Equal(t, "Txt_A\n<cf>Hello\n", string(data))
}

func TestFixWithoutProvider(t *testing.T) {
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\nx\n")
	tr := write(t, dir, "a_vi.txt", "Txt_A\nx\n")

	_, err := run(t, "fix", o, tr)
	assertExit(t, err, ExitCodeError)
}

func TestFixGeminiNeedsKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	o := write(t, dir, "a.txt", "Txt_A\nx\n")
	tr := write(t, dir, "a_vi.txt", "Txt_A\nx\n")

	_, err := run(t, "fix", "--gemini", o, tr)
	assertExit(t, err, ExitCodeError)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tagcheck dev\n", out)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeOK, exitCode(nil))
	assert.Equal(t, ExitCodeIssues, exitCode(errIssues))
	assert.Equal(t, ExitCodeError, exitCode(errors.New("unknown command")))
	assert.Equal(t, ExitCodeError, exitCode(&ExitError{Code: ExitCodeError, Err: errors.New("x")}))
}
