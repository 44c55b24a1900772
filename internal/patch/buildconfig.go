package patch

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/log"
)

var (
	appVersionRe    = regexp.MustCompile(`appVersion = "(.*)"`)
	appCodeNumberRe = regexp.MustCompile(`appCodeNumber = (\d+)`)
)

// BuildConfigResult describes a build config bump
type BuildConfigResult struct {
	// Content is the patched source
	Content string

	// PreviousVersion is the version found before patching
	PreviousVersion string

	// PreviousCode is the build code number found before patching
	PreviousCode int

	// Code is the new build code number, zero when nothing changed
	Code int

	// Changed is false when the source already declared the version
	Changed bool
}

// BumpBuildConfig sets appVersion to next and increments appCodeNumber.
// When appVersion already equals next the source is returned untouched.
func BumpBuildConfig(src, next string) (BuildConfigResult, error) {
	m := appVersionRe.FindStringSubmatch(src)
	if m == nil {
		return BuildConfigResult{}, fmt.Errorf("appVersion: %w", ErrPatternNotFound)
	}
	current := m[1]
	if current == next {
		return BuildConfigResult{Content: src, PreviousVersion: current}, nil
	}

	out := replaceGroup(appVersionRe, src, next)

	cm := appCodeNumberRe.FindStringSubmatch(out)
	if cm == nil {
		return BuildConfigResult{}, fmt.Errorf("appCodeNumber: %w", ErrPatternNotFound)
	}
	code, err := strconv.Atoi(cm[1])
	if err != nil {
		return BuildConfigResult{}, fmt.Errorf("invalid appCodeNumber %q: %w", cm[1], err)
	}
	out = replaceGroup(appCodeNumberRe, out, strconv.Itoa(code+1))

	return BuildConfigResult{
		Content:         out,
		PreviousVersion: current,
		PreviousCode:    code,
		Code:            code + 1,
		Changed:         true,
	}, nil
}

// BuildConfig bumps the version and code number in the build config file.
// It returns the new code number, or changed=false when the file already
// declares next.
func (p *Patcher) BuildConfig(path, next string) (int, bool, error) {
	src, err := p.read(path)
	if err != nil {
		return 0, false, err
	}

	res, err := BumpBuildConfig(src, next)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", path, err)
	}
	if !res.Changed {
		log.Info("Build config already at version", "path", path, "version", res.PreviousVersion)
		return 0, false, nil
	}

	log.Info("Current build config version", "version", res.PreviousVersion, "code", res.PreviousCode)
	log.Info("Next build config version", "version", next, "code", res.Code)

	if err := p.write(path, res.Content); err != nil {
		return 0, false, err
	}
	log.Info("Build config updated", "path", path, "version", next, "code", res.Code)
	return res.Code, true, nil
}
