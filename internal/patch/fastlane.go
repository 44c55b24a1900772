package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
)

// SnapshotPath returns the fastlane changelog file for a build code number
func SnapshotPath(dir string, code int) string {
	return filepath.Join(dir, strconv.Itoa(code)+".txt")
}

// Snapshot writes body verbatim to <dir>/<code>.txt, replacing any existing
// file. F-Droid picks the text up as the release notes for that build.
func (p *Patcher) Snapshot(dir string, code int, body string) (string, error) {
	path := SnapshotPath(dir, code)

	if !p.DryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := p.write(path, body); err != nil {
		return "", err
	}

	log.Info("Fastlane changelog written", "path", path)
	return path, nil
}
