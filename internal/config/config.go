/*
Package config provides configuration loading and validation for Bumper.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file written by "bumper init"
const DefaultFile = ".bumper.yaml"

// Config represents the complete Bumper configuration
type Config struct {
	// Version of the configuration schema
	Version int `yaml:"version"`

	// Include other configuration files
	Includes []string `yaml:"includes,omitempty"`

	// GitHub repository the commit history is read from
	GitHub GitHub `yaml:"github,omitempty"`

	// Authors with special handling in the changelog
	Authors Authors `yaml:"authors,omitempty"`

	// Filters for commit subjects
	Filters Filters `yaml:"filters,omitempty"`

	// Files patched by a release
	Files Files `yaml:"files,omitempty"`

	// VersionRegion describes the generated block in the game source
	VersionRegion VersionRegion `yaml:"version_region,omitempty"`

	// Hooks run after the file edits
	Hooks Hooks `yaml:"hooks,omitempty"`
}

// GitHub contains the commit source configuration
type GitHub struct {
	// Owner of the repository
	Owner string `yaml:"owner,omitempty"`

	// Repo is the repository name
	Repo string `yaml:"repo,omitempty"`

	// APIURL is the REST API base URL
	APIURL string `yaml:"api_url,omitempty"`

	// PerPage is the number of commits fetched
	PerPage int `yaml:"per_page,omitempty"`

	// Timeout for the API request
	Timeout string `yaml:"timeout,omitempty"`
}

// Authors names the accounts the changelog treats specially
type Authors struct {
	// Bot is the automation account whose commits are ignored
	Bot string `yaml:"bot,omitempty"`

	// Primary is the maintainer whose commits form the main narrative
	Primary string `yaml:"primary,omitempty"`
}

// Filters contains commit subject filters
type Filters struct {
	// SkipPrefixes drops subjects starting with any of these
	SkipPrefixes []string `yaml:"skip_prefixes,omitempty"`
}

// Files contains the paths patched by a release, relative to the working directory
type Files struct {
	Changelog     string `yaml:"changelog,omitempty"`
	BuildConfig   string `yaml:"build_config,omitempty"`
	FastlaneDir   string `yaml:"fastlane_dir,omitempty"`
	VersionSource string `yaml:"version_source,omitempty"`
}

// VersionRegion describes the marker-delimited block holding the version declaration
type VersionRegion struct {
	Start    string `yaml:"start,omitempty"`
	End      string `yaml:"end,omitempty"`
	Template string `yaml:"template,omitempty"`
	Indent   string `yaml:"indent,omitempty"`
}

// Hooks contains commands run around the file edits
type Hooks struct {
	// After runs once a new version has been written
	After []Hook `yaml:"after,omitempty"`
}

// Hook is a shell command. Cmd and Env values are templates.
type Hook struct {
	Cmd         string            `yaml:"cmd"`
	Env         map[string]string `yaml:"env,omitempty"`
	IgnoreError bool              `yaml:"ignore_error,omitempty"`
}

// Default returns the built-in configuration for the Unciv repository
func Default() Config {
	return Config{
		Version: 1,
		GitHub: GitHub{
			Owner:   "yairm210",
			Repo:    "Unciv",
			APIURL:  "https://api.github.com",
			PerPage: 50,
			Timeout: "30s",
		},
		Authors: Authors{
			Bot:     "uncivbot[bot]",
			Primary: "yairm210",
		},
		Filters: Filters{
			SkipPrefixes: []string{"Merge ", "Update "},
		},
		Files: Files{
			Changelog:     "changelog.md",
			BuildConfig:   "buildSrc/src/main/kotlin/BuildConfig.kt",
			FastlaneDir:   "fastlane/metadata/android/en-US/changelogs",
			VersionSource: "core/src/com/unciv/UncivGame.kt",
		},
		VersionRegion: VersionRegion{
			Start:    "//region AUTOMATICALLY GENERATED VERSION DATA - DO NOT CHANGE THIS REGION, INCLUDING THIS COMMENT",
			End:      "//endregion",
			Template: `val VERSION = Version("{{ .Version }}", {{ .Code }})`,
			Indent:   "        ",
		},
	}
}

// Load loads configuration from a file and fills unset keys with defaults
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	// An explicit empty list turns the filter off; mergo would refill it.
	noPrefixes := cfg.Filters.SkipPrefixes != nil && len(cfg.Filters.SkipPrefixes) == 0

	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if noPrefixes {
		cfg.Filters.SkipPrefixes = []string{}
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the built-in defaults when path is empty
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}
	return Load(path)
}

// load reads a file and its includes without applying defaults
func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Process includes
	baseDir := filepath.Dir(path)
	for _, include := range cfg.Includes {
		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, include)
		}

		// Support glob patterns
		matches, err := filepath.Glob(includePath)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %s: %w", include, err)
		}

		for _, match := range matches {
			includeCfg, err := load(match)
			if err != nil {
				return nil, fmt.Errorf("failed to load include %s: %w", match, err)
			}

			if err := mergo.Merge(&cfg, includeCfg, mergo.WithAppendSlice); err != nil {
				return nil, fmt.Errorf("failed to merge include %s: %w", match, err)
			}
		}
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" {
		return fmt.Errorf("github.owner is required")
	}
	if c.GitHub.Repo == "" {
		return fmt.Errorf("github.repo is required")
	}
	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("github.per_page must be between 1 and 100, got %d", c.GitHub.PerPage)
	}
	if _, err := c.GitHub.TimeoutDuration(); err != nil {
		return err
	}

	if c.Authors.Bot != "" && c.Authors.Bot == c.Authors.Primary {
		return fmt.Errorf("authors.bot and authors.primary must differ")
	}

	files := map[string]string{
		"files.changelog":      c.Files.Changelog,
		"files.build_config":   c.Files.BuildConfig,
		"files.fastlane_dir":   c.Files.FastlaneDir,
		"files.version_source": c.Files.VersionSource,
	}
	for key, value := range files {
		if value == "" {
			return fmt.Errorf("%s is required", key)
		}
	}

	if c.VersionRegion.Start == "" || c.VersionRegion.End == "" {
		return fmt.Errorf("version_region.start and version_region.end are required")
	}
	if c.VersionRegion.Start == c.VersionRegion.End {
		return fmt.Errorf("version_region.start and version_region.end must differ")
	}
	if _, err := template.New("version_region.template").Parse(c.VersionRegion.Template); err != nil {
		return fmt.Errorf("invalid template in version_region.template: %w", err)
	}

	for i, h := range c.Hooks.After {
		if h.Cmd == "" {
			return fmt.Errorf("hooks.after[%d].cmd is required", i)
		}
		if _, err := template.New("hook").Parse(h.Cmd); err != nil {
			return fmt.Errorf("invalid template in hook %q: %w", h.Cmd, err)
		}
	}

	return nil
}

// TimeoutDuration parses the API timeout
func (g GitHub) TimeoutDuration() (time.Duration, error) {
	if g.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(g.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid github.timeout %q: %w", g.Timeout, err)
	}
	return d, nil
}

// Resolve returns the file paths joined onto root. Absolute paths are kept.
func (f Files) Resolve(root string) Files {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return Files{
		Changelog:     join(f.Changelog),
		BuildConfig:   join(f.BuildConfig),
		FastlaneDir:   join(f.FastlaneDir),
		VersionSource: join(f.VersionSource),
	}
}

// DefaultTemplate returns the default configuration template
func DefaultTemplate() string {
	return `# Bumper configuration file

version: 1

# Repository the commit history is read from.
# Set BUMPER_GITHUB_TOKEN or GITHUB_TOKEN to raise the API rate limit.
github:
  owner: yairm210
  repo: Unciv
  api_url: https://api.github.com
  per_page: 50
  timeout: 30s

authors:
  # Commits by this account are never listed
  bot: "uncivbot[bot]"
  # Commits by this account are listed without a "By" attribution
  primary: yairm210

# Subjects starting with any of these are left out. Use [] to keep every commit.
filters:
  skip_prefixes:
    - "Merge "
    - "Update "

# Paths are relative to the working directory (--dir)
files:
  changelog: changelog.md
  build_config: buildSrc/src/main/kotlin/BuildConfig.kt
  fastlane_dir: fastlane/metadata/android/en-US/changelogs
  version_source: core/src/com/unciv/UncivGame.kt

version_region:
  start: "//region AUTOMATICALLY GENERATED VERSION DATA - DO NOT CHANGE THIS REGION, INCLUDING THIS COMMENT"
  end: "//endregion"
  template: 'val VERSION = Version("{{ .Version }}", {{ .Code }})'
  indent: "        "

# Commands run in the repository root. {{ .Version }} and {{ .Code }} are available.
# hooks:
#   after:
#     - cmd: git add -A && git commit -m "{{ .Version }}"
`
}
