package patch

import (
	"strings"

	"github.com/charmbracelet/log"
)

// PrependChangelog puts entry at the top of current. It reports false when
// current already starts with entry.
func PrependChangelog(current, entry string) (string, bool) {
	if strings.HasPrefix(current, entry) {
		return current, false
	}
	return entry + current, true
}

// Changelog prepends entry to the changelog file unless it is already there
func (p *Patcher) Changelog(path, entry string) (bool, error) {
	current, err := p.read(path)
	if err != nil {
		return false, err
	}

	updated, changed := PrependChangelog(current, entry)
	if !changed {
		log.Info("Changelog already contains entry", "path", path)
		return false, nil
	}

	if err := p.write(path, updated); err != nil {
		return false, err
	}
	log.Info("Changelog updated", "path", path)
	return true, nil
}
