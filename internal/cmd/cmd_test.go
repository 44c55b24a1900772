package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/bumper/internal/config"
)

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, verbose, debug = "", false, false
	workDir, dryRun, skipGitCheck = ".", false, false
	changelogOutput, changelogFormat = "", "markdown"
	historyLimit = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.HasPrefix(out, "Bumper ") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	content := "## 4.12.19\n\nNew\n\n## 4.12.18\n\nOld\n\n## 4.12.17\n\nOlder\n"
	if err := os.WriteFile(filepath.Join(dir, "changelog.md"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "history", "--dir", dir, "--limit", "2")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if out != "4.12.19\n4.12.18\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "changelog.md"), []byte("# Changes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "history", "--dir", dir); err == nil {
		t.Fatal("expected error for changelog without versions")
	}
}

func TestInitThenCheck(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out string
	out, err = execute(t, "init")
	if err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	if !strings.Contains(out, config.DefaultFile) {
		t.Fatalf("unexpected init output %q", out)
	}

	if _, err := execute(t, "init"); err == nil {
		t.Fatal("expected error when the config file exists")
	}

	out, err = execute(t, "check")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Fatalf("unexpected check output %q", out)
	}
}

func TestCheckRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bumper.yaml")
	if err := os.WriteFile(path, []byte("github:\n  owner: x\n  colour: blue\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "check", "--config", path)
	if err == nil {
		t.Fatal("expected schema error")
	}
	if !strings.Contains(out, "Validation failed") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema returned error: %v", err)
	}
	if !strings.Contains(out, `"version_region"`) {
		t.Fatalf("schema output missing properties: %q", out)
	}

	path := filepath.Join(t.TempDir(), "bumper.schema.json")
	if _, err := execute(t, "schema", path); err != nil {
		t.Fatalf("schema with output returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("schema file not written: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion returned error: %v", err)
	}
	if !strings.Contains(out, "bumper") {
		t.Fatal("completion script does not mention the binary")
	}
}

func TestRunHelpMentionsMissingMarker(t *testing.T) {
	out, err := execute(t, "run", "--help")
	if err != nil {
		t.Fatalf("run --help returned error: %v", err)
	}
	if !strings.Contains(out, "version marker") {
		t.Fatalf("run help does not explain the missing marker error:\n%s", out)
	}
}
