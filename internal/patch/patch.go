/*
Package patch applies the release edits to files in the working tree.

Every edit is a read-modify-write of a whole file. The pure string
transformations are exported separately so they can be previewed and tested
without touching disk.
*/
package patch

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/log"
)

// ErrPatternNotFound is returned when a file lacks an expected assignment
var ErrPatternNotFound = errors.New("pattern not found")

// Patcher applies edits to files on disk
type Patcher struct {
	// DryRun computes every edit but writes nothing
	DryRun bool
}

// New creates a new patcher
func New(dryRun bool) *Patcher {
	return &Patcher{DryRun: dryRun}
}

func (p *Patcher) read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// write overwrites path in place, keeping the mode of an existing file
func (p *Patcher) write(path, content string) error {
	if p.DryRun {
		log.Info("Dry run: skipping write", "path", path, "bytes", len(content))
		return nil
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Debug("Wrote file", "path", path, "bytes", len(content))
	return nil
}

// replaceGroup replaces the first capture group of the first match of re
func replaceGroup(re *regexp.Regexp, s, value string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil || loc[2] < 0 {
		return s
	}
	return s[:loc[2]] + value + s[loc[3]:]
}
