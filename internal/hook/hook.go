// Package hook runs the user commands configured around a release preparation.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/oarkflow/bumper/internal/config"
	"github.com/oarkflow/bumper/internal/tmpl"
)

// Runner executes hooks in the repository root.
type Runner struct {
	tmplCtx *tmpl.Context
	workDir string
	dryRun  bool
}

// NewRunner creates a new hook runner.
func NewRunner(tmplCtx *tmpl.Context, workDir string, dryRun bool) *Runner {
	return &Runner{
		tmplCtx: tmplCtx,
		workDir: workDir,
		dryRun:  dryRun,
	}
}

// Run executes a single hook.
func (r *Runner) Run(ctx context.Context, h config.Hook) error {
	if strings.TrimSpace(h.Cmd) == "" {
		return nil
	}

	cmd, err := r.tmplCtx.Apply(h.Cmd)
	if err != nil {
		return fmt.Errorf("failed to apply template to hook %q: %w", h.Cmd, err)
	}

	if r.dryRun {
		log.Info("Dry run: skipping hook", "cmd", cmd)
		return nil
	}

	log.Info("Running hook", "cmd", cmd)

	c := r.command(ctx, cmd)
	c.Dir = r.workDir
	c.Env = os.Environ()
	env, err := r.environment(h.Env)
	if err != nil {
		return err
	}
	c.Env = append(c.Env, env...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		if h.IgnoreError {
			log.Warn("Hook failed but continuing", "cmd", cmd, "error", err)
			return nil
		}
		return fmt.Errorf("hook %q failed: %w", cmd, err)
	}

	return nil
}

// RunHooks executes hooks in order and stops at the first failure.
func (r *Runner) RunHooks(ctx context.Context, hooks []config.Hook) error {
	for _, h := range hooks {
		if err := r.Run(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) command(ctx context.Context, cmd string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "powershell.exe", "-Command", cmd)
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return exec.CommandContext(ctx, shell, "-c", cmd)
}

// environment renders env values and returns them as KEY=value pairs, sorted by key
func (r *Runner) environment(env map[string]string) ([]string, error) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		value, err := r.tmplCtx.Apply(env[k])
		if err != nil {
			return nil, fmt.Errorf("failed to apply template to env %s: %w", k, err)
		}
		result = append(result, k+"="+value)
	}
	return result, nil
}
