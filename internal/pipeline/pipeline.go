/*
Package pipeline provides the release preparation orchestration for Bumper.
*/
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/oarkflow/bumper"
	"github.com/oarkflow/bumper/internal/changelog"
	"github.com/oarkflow/bumper/internal/config"
	"github.com/oarkflow/bumper/internal/git"
	"github.com/oarkflow/bumper/internal/github"
	"github.com/oarkflow/bumper/internal/hook"
	"github.com/oarkflow/bumper/internal/patch"
	"github.com/oarkflow/bumper/internal/tmpl"
)

// CommitSource lists recent commits, newest first
type CommitSource interface {
	ListCommits(ctx context.Context) ([]git.Commit, error)
}

// Options contains options for the pipeline
type Options struct {
	ConfigFile   string
	Dir          string
	DryRun       bool
	SkipGitCheck bool
}

// Result summarizes what a run changed
type Result struct {
	Release           changelog.Release
	ChangelogUpdated  bool
	BuildConfigBumped bool
	Code              int
	SnapshotPath      string
	RegionUpdated     bool
	HooksRun          int
	LatestReleased    string
}

// Pipeline orchestrates a release preparation
type Pipeline struct {
	config    *config.Config
	options   Options
	source    CommitSource
	deriver   *changelog.Deriver
	patcher   *patch.Patcher
	dir       string
	files     config.Files
	startTime time.Time
}

// LoadConfig loads the configuration for dir. An explicit file wins; else
// the first known config file in dir; else the built-in defaults.
func LoadConfig(file, dir string) (*config.Config, error) {
	if file == "" {
		file = findConfigFile(dir)
	}

	cfg, err := config.LoadOrDefault(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if file != "" {
		log.Debug("Loaded configuration", "path", file)
	} else {
		log.Debug("Using built-in configuration")
	}
	return cfg, nil
}

// New creates a pipeline reading commits from GitHub
func New(ctx context.Context, opts Options) (*Pipeline, error) {
	cfg, err := LoadConfig(opts.ConfigFile, opts.Dir)
	if err != nil {
		return nil, err
	}

	client, err := github.NewClient(cfg.GitHub, github.UserAgent(bumper.Version))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return NewWithSource(cfg, client, opts), nil
}

// NewWithSource creates a pipeline reading commits from source
func NewWithSource(cfg *config.Config, source CommitSource, opts Options) *Pipeline {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	return &Pipeline{
		config:    cfg,
		options:   opts,
		source:    source,
		deriver:   changelog.NewDeriver(cfg),
		patcher:   patch.New(opts.DryRun),
		dir:       dir,
		files:     cfg.Files.Resolve(dir),
		startTime: time.Now(),
	}
}

// Config returns the loaded configuration
func (p *Pipeline) Config() *config.Config {
	return p.config
}

// Derive fetches the commit history and derives the next release
func (p *Pipeline) Derive(ctx context.Context) (changelog.Release, error) {
	log.Info("Fetching commits", "owner", p.config.GitHub.Owner, "repo", p.config.GitHub.Repo)

	commits, err := p.source.ListCommits(ctx)
	if err != nil {
		return changelog.Release{}, fmt.Errorf("failed to fetch commits: %w", err)
	}

	rel, err := p.deriver.Derive(commits)
	if err != nil {
		return rel, err
	}
	if !rel.Found {
		return rel, fmt.Errorf("%w (searched %d commits)", changelog.ErrNoPreviousVersion, len(commits))
	}
	log.Debug("Changelog body", "body", rel.Body)

	return rel, nil
}

// Run executes the full release preparation
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log.Info("Starting release preparation", "repo", p.config.GitHub.Owner+"/"+p.config.GitHub.Repo, "dry_run", p.options.DryRun)

	if !p.options.SkipGitCheck {
		p.checkTree(ctx)
	}

	rel, err := p.Derive(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Release: rel}
	result.LatestReleased = p.latestReleased(rel)

	result.ChangelogUpdated, err = p.patcher.Changelog(p.files.Changelog, rel.Entry())
	if err != nil {
		return result, fmt.Errorf("failed to update changelog: %w", err)
	}

	code, bumped, err := p.patcher.BuildConfig(p.files.BuildConfig, rel.Version)
	if err != nil {
		return result, fmt.Errorf("failed to update build config: %w", err)
	}
	result.BuildConfigBumped = bumped
	result.Code = code

	// The build config already naming this version means the release was
	// prepared before: the snapshot and version block are left alone.
	if !bumped {
		log.Info("Release already prepared, skipping snapshot and version block", "version", rel.Version)
		p.summary(result)
		return result, nil
	}

	result.SnapshotPath, err = p.patcher.Snapshot(p.files.FastlaneDir, code, rel.Body)
	if err != nil {
		return result, fmt.Errorf("failed to write fastlane changelog: %w", err)
	}

	tmplCtx := tmpl.New(p.config, rel.Version, code)
	statement, err := tmplCtx.VersionStatement()
	if err != nil {
		return result, err
	}
	region := patch.Region{
		Start:  p.config.VersionRegion.Start,
		End:    p.config.VersionRegion.End,
		Indent: p.config.VersionRegion.Indent,
	}
	result.RegionUpdated, err = p.patcher.VersionRegion(p.files.VersionSource, region, statement)
	if err != nil {
		return result, fmt.Errorf("failed to update version declaration: %w", err)
	}

	if hooks := p.config.Hooks.After; len(hooks) > 0 {
		log.Debug("Running after hooks", "count", len(hooks))
		if err := hook.NewRunner(tmplCtx, p.dir, p.options.DryRun).RunHooks(ctx, hooks); err != nil {
			return result, err
		}
		result.HooksRun = len(hooks)
	}

	p.summary(result)
	return result, nil
}

// latestReleased returns the newest version already in the changelog file.
// It warns when that is neither the marker commit nor the version about to
// be written, which means the history and the changelog disagree.
func (p *Pipeline) latestReleased(rel changelog.Release) string {
	data, err := os.ReadFile(p.files.Changelog)
	if err != nil {
		return ""
	}

	latest, ok := changelog.Latest(data)
	if !ok {
		log.Debug("No released version in changelog", "path", p.files.Changelog)
		return ""
	}
	log.Info("Latest version in changelog", "version", latest, "marker", rel.Previous)
	if latest != rel.Previous && latest != rel.Version {
		log.Warn("Changelog does not start at the previous version marker",
			"changelog", latest, "marker", rel.Previous, "next", rel.Version)
	}
	return latest
}

// checkTree warns when the working tree has uncommitted changes
func (p *Pipeline) checkTree(ctx context.Context) {
	state, err := git.TreeState(ctx, p.dir)
	if err != nil {
		log.Debug("Skipping working tree check", "error", err)
		return
	}
	if state == "dirty" {
		log.Warn("Working tree has uncommitted changes; patched files will mix with them", "dir", p.dir)
	}
}

func (p *Pipeline) summary(r *Result) {
	log.Info("Release preparation completed",
		"version", r.Release.Version,
		"code", r.Code,
		"changelog", r.ChangelogUpdated,
		"build_config", r.BuildConfigBumped,
		"snapshot", r.SnapshotPath,
		"version_block", r.RegionUpdated,
		"hooks", r.HooksRun,
		"duration", time.Since(p.startTime).Round(time.Millisecond),
	)
}

// findConfigFile returns the first config file present in dir, or ""
func findConfigFile(dir string) string {
	candidates := []string{
		".bumper.yaml",
		".bumper.yml",
		"bumper.yaml",
		"bumper.yml",
	}

	for _, c := range candidates {
		path := filepath.Join(dir, c)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
