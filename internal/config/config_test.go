package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bumper.yaml")
	writeFile(t, path, strings.TrimSpace(`
github:
  owner: someone
  repo: SomeGame
authors:
  primary: someone
`))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GitHub.Owner != "someone" || cfg.GitHub.Repo != "SomeGame" {
		t.Fatalf("unexpected github config: %+v", cfg.GitHub)
	}
	if cfg.GitHub.PerPage != 50 {
		t.Fatalf("expected default per_page 50, got %d", cfg.GitHub.PerPage)
	}
	if cfg.Authors.Bot != "uncivbot[bot]" {
		t.Fatalf("expected default bot, got %q", cfg.Authors.Bot)
	}
	if cfg.Files.Changelog != "changelog.md" {
		t.Fatalf("expected default changelog path, got %q", cfg.Files.Changelog)
	}
	if len(cfg.Filters.SkipPrefixes) != 2 {
		t.Fatalf("expected default skip prefixes, got %v", cfg.Filters.SkipPrefixes)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("BUMPER_TEST_OWNER", "env-owner")
	dir := t.TempDir()
	path := filepath.Join(dir, "bumper.yaml")
	writeFile(t, path, "github:\n  owner: ${BUMPER_TEST_OWNER}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GitHub.Owner != "env-owner" {
		t.Fatalf("expected owner from env, got %q", cfg.GitHub.Owner)
	}
}

func TestLoadMergesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "files.yaml"), strings.TrimSpace(`
files:
  changelog: docs/CHANGES.md
filters:
  skip_prefixes:
    - "Revert "
`))
	path := filepath.Join(dir, "bumper.yaml")
	writeFile(t, path, strings.TrimSpace(`
includes:
  - files.yaml
filters:
  skip_prefixes:
    - "Merge "
`))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Files.Changelog != "docs/CHANGES.md" {
		t.Fatalf("expected included changelog path, got %q", cfg.Files.Changelog)
	}
	got := strings.Join(cfg.Filters.SkipPrefixes, "|")
	if got != "Merge |Revert " {
		t.Fatalf("expected appended skip prefixes, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault returned error: %v", err)
	}
	if cfg.GitHub.Repo != "Unciv" {
		t.Fatalf("expected default repo, got %q", cfg.GitHub.Repo)
	}
}

func TestDefaultTemplateIsValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	writeFile(t, path, DefaultTemplate())

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	want := Default()
	if cfg.VersionRegion != want.VersionRegion {
		t.Fatalf("template region = %+v, want %+v", cfg.VersionRegion, want.VersionRegion)
	}
	if cfg.Files != want.Files {
		t.Fatalf("template files = %+v, want %+v", cfg.Files, want.Files)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"missing owner", func(c *Config) { c.GitHub.Owner = "" }, "github.owner"},
		{"per page too large", func(c *Config) { c.GitHub.PerPage = 500 }, "per_page"},
		{"bad timeout", func(c *Config) { c.GitHub.Timeout = "soon" }, "github.timeout"},
		{"bot is primary", func(c *Config) { c.Authors.Bot = c.Authors.Primary }, "must differ"},
		{"missing changelog", func(c *Config) { c.Files.Changelog = "" }, "files.changelog"},
		{"same markers", func(c *Config) { c.VersionRegion.End = c.VersionRegion.Start }, "must differ"},
		{"bad template", func(c *Config) { c.VersionRegion.Template = "{{ .Version" }, "version_region.template"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Fatalf("error %q does not mention %q", err, tc.errSub)
			}
		})
	}
}

func TestFilesResolve(t *testing.T) {
	files := Files{Changelog: "changelog.md", BuildConfig: "/abs/BuildConfig.kt"}.Resolve("/repo")
	if files.Changelog != filepath.Join("/repo", "changelog.md") {
		t.Fatalf("unexpected changelog path %q", files.Changelog)
	}
	if files.BuildConfig != "/abs/BuildConfig.kt" {
		t.Fatalf("absolute path rewritten: %q", files.BuildConfig)
	}
	if files.FastlaneDir != "" {
		t.Fatalf("empty path rewritten: %q", files.FastlaneDir)
	}
}

func TestLoadHooks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bumper.yaml")
	writeFile(t, path, strings.TrimSpace(`
hooks:
  after:
    - cmd: git commit -am "{{ .Version }}"
      env:
        GIT_AUTHOR_NAME: bumper
    - cmd: ./notify.sh
      ignore_error: true
`))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Hooks.After) != 2 {
		t.Fatalf("expected 2 hooks, got %d", len(cfg.Hooks.After))
	}
	if cfg.Hooks.After[0].Env["GIT_AUTHOR_NAME"] != "bumper" || !cfg.Hooks.After[1].IgnoreError {
		t.Fatalf("unexpected hooks %+v", cfg.Hooks.After)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	cfg.Hooks.After = append(cfg.Hooks.After, Hook{Cmd: "echo {{ .Version"})
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "hook") {
		t.Fatalf("expected hook template error, got %v", err)
	}
}

func TestLoadEmptySkipPrefixes(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.yaml")
	writeFile(t, path, "filters:\n  skip_prefixes: []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Filters.SkipPrefixes == nil || len(cfg.Filters.SkipPrefixes) != 0 {
		t.Fatalf("expected no skip prefixes, got %v", cfg.Filters.SkipPrefixes)
	}

	path = filepath.Join(dir, "unset.yaml")
	writeFile(t, path, "filters: {}\n")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Filters.SkipPrefixes) != 2 {
		t.Fatalf("expected default skip prefixes, got %v", cfg.Filters.SkipPrefixes)
	}
}
