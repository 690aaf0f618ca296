package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/orizon-lang/kestrel/internal/cli"
)

// run executes kestrelc with args and returns stdout, stderr and the exit code
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	return runContext(t, context.Background(), stdin, args...)
}

func runContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--color", "never"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := ExitCode(root.ExecuteContext(ctx), &stderr)
	return stdout.String(), stderr.String(), code
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseStdinSource(t *testing.T) {
	stdout, stderr, code := run(t, "declare x; x = 1 + 2 * 3;", "parse", "--format", "source")
	if code != cli.ExitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	want := "declare x;\nx = 1 + (2 * 3);\n\n"
	if stdout != want {
		t.Errorf("stdout mismatch\n got: %q\nwant: %q", stdout, want)
	}
}

func TestParseFileJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prog.ks", "declare x; print x;")
	stdout, stderr, code := run(t, "", "parse", "-f", "json", path)
	if code != cli.ExitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if tree["type"] != "StmtList" {
		t.Errorf("unexpected root %v", tree["type"])
	}
}

func TestParseReportsDiagnostic(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.ks", "declare x;\nx = y;\n")
	stdout, stderr, code := run(t, "", "parse", path)
	if code != cli.ExitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stdout != "" {
		t.Errorf("no tree expected on failure, got %q", stdout)
	}
	for _, part := range []string{"error[E2001]: variable not defined", "bad.ks:2:5", "   2 | x = y;", `"y" is not declared`} {
		if !strings.Contains(stderr, part) {
			t.Errorf("stderr missing %q:\n%s", part, stderr)
		}
	}
}

func TestParseMissingFile(t *testing.T) {
	_, stderr, code := run(t, "", "parse", filepath.Join(t.TempDir(), "missing.ks"))
	if code != cli.ExitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "failed to read source") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExprCommand(t *testing.T) {
	tests := []struct {
		args   []string
		code   int
		stdout string
	}{
		{[]string{"expr", "-f", "source", "1 - 2 - 3"}, cli.ExitOK, "(1 - 2) - 3\n"},
		{[]string{"expr", "-f", "source", "--declare", "a", "--declare", "b", "a < b ? a : b"}, cli.ExitOK, "a < b ? a : b\n"},
		{[]string{"expr", "-f", "source", "-d", "a,b", "a & b"}, cli.ExitOK, "a & b\n"},
		{[]string{"expr", "a + 1"}, cli.ExitFailure, ""},
		{[]string{"expr", "-d", "a", "-d", "a", "a"}, cli.ExitUsage, ""},
		{[]string{"expr"}, cli.ExitUsage, ""},
	}

	for i, tt := range tests {
		stdout, stderr, code := run(t, "", tt.args...)
		if code != tt.code {
			t.Errorf("tests[%d] - %v: exit code wrong. expected=%d, got=%d (stderr: %s)", i, tt.args, tt.code, code, stderr)
			continue
		}
		if tt.stdout != "" && stdout != tt.stdout {
			t.Errorf("tests[%d] - %v: stdout wrong. expected=%q, got=%q", i, tt.args, tt.stdout, stdout)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ks", "function f(a) { return a; } print call f(1);")
	other := writeFile(t, dir, "other.ks", "declare z;")
	bad := writeFile(t, dir, "bad.ks", "call g();")

	stdout, stderr, code := run(t, "", "check", good, other)
	if code != cli.ExitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "ok  "+good+" (2 statements)") || !strings.Contains(stdout, "ok  "+other+" (1 statements)") {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, stderr, code = run(t, "", "check", "--jobs", "2", good, bad, other)
	if code != cli.ExitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if strings.Contains(stdout, bad) {
		t.Errorf("failed file reported ok: %q", stdout)
	}
	if !strings.Contains(stderr, "function not defined") || !strings.Contains(stderr, "Found 1 error(s).") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "kestrel.toml", "[parser]\nmax_depth = 8\n[output]\nformat = \"source\"\n")
	deep := writeFile(t, dir, "deep.ks", "print (((((((((1)))))))));")

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs([]string{"--config", cfg, "--color", "never", "parse", deep})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if code := ExitCode(root.Execute(), &stderr); code != cli.ExitFailure {
		t.Fatalf("expected nesting failure, got %d (stdout %q)", code, stdout.String())
	}
	if !strings.Contains(stderr.String(), "nesting too deep") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}

	bad := writeFile(t, dir, "bad.toml", "requires = \">= 99.0.0\"\n")
	_, errOut, code := runWithConfig(t, bad, "parse")
	if code != cli.ExitFailure || !strings.Contains(errOut, "does not satisfy requires") {
		t.Errorf("expected requires failure, got %d %q", code, errOut)
	}
}

func TestMissingNamedConfig(t *testing.T) {
	_, stderr, code := runWithConfig(t, filepath.Join(t.TempDir(), "typo.toml"), "expr", "1")
	if code != cli.ExitFailure {
		t.Fatalf("expected exit 1 for a missing --config file, got %d", code)
	}
	if !strings.Contains(stderr, "typo.toml not found") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func runWithConfig(t *testing.T, config string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--config", config}, args...))
	root.SetIn(strings.NewReader(""))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := ExitCode(root.Execute(), &stderr)
	return stdout.String(), stderr.String(), code
}

func TestColorFlagValidation(t *testing.T) {
	_, stderr, code := run(t, "", "--color", "sometimes", "expr", "1")
	if code != cli.ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr, "--color") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestColorAlwaysOnPipe(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs([]string{"--color", "always", "expr", "y"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if code := ExitCode(root.Execute(), &stderr); code != cli.ExitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "\x1b[") {
		t.Errorf("--color always produced no escape codes on a buffer: %q", stderr.String())
	}
}

func TestParseDebugCountsNodes(t *testing.T) {
	_, stderr, code := run(t, "declare x; print x;", "--debug", "parse")
	if code != cli.ExitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr, "<stdin>: 2 statements, ") || !strings.Contains(stderr, " nodes") {
		t.Errorf("debug log missing node count: %q", stderr)
	}
}

func TestCheckOrdersReadFailures(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for _, n := range []string{"c.ks", "a.ks", "b.ks"} {
		names = append(names, filepath.Join(dir, n))
	}
	_, stderr, code := run(t, "", append([]string{"check", "--jobs", "3"}, names...)...)
	if code != cli.ExitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	a, b, c := strings.Index(stderr, "a.ks"), strings.Index(stderr, "b.ks"), strings.Index(stderr, "c.ks")
	if a < 0 || !(a < b && b < c) {
		t.Errorf("read failures not in file order:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Found 3 error(s).") {
		t.Errorf("summary missing:\n%s", stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, code := runWithConfig(t, "/nonexistent/dir/broken.toml", "version", "--json")
	if code != cli.ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout, `"tool": "kestrelc"`) {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "live.ks", "declare x;")

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	stdout, stderr, code := runContext(t, ctx, "", "watch", "--debounce", "10ms", path)
	if code != cli.ExitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "ok  "+path+" (1 statements)") {
		t.Errorf("initial check missing: %q", stdout)
	}
}

func TestCheckExamples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "..", "examples", "*.ks"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no example programs found: %v", err)
	}
	stdout, stderr, code := run(t, "", append([]string{"check"}, files...)...)
	if code != cli.ExitOK {
		t.Fatalf("examples should parse cleanly, exit %d:\n%s", code, stderr)
	}
	if got := strings.Count(stdout, "ok  "); got != len(files) {
		t.Errorf("expected %d ok lines, got %d:\n%s", len(files), got, stdout)
	}
}
