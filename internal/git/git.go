/*
Package git provides commit and version types plus local repository checks for Bumper.
*/
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
)

// Commit represents a commit as reported by the hosting service
type Commit struct {
	// Hash is the commit SHA
	Hash string

	// Author is the host account login. Empty when the host could not
	// resolve the commit author to an account.
	Author string

	// Message is the full commit message
	Message string

	// Date is the author date
	Date time.Time
}

// Subject returns the first line of the commit message
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSuffix(subject, "\r")
}

// HasAuthor reports whether the commit is attributed to a host account
func (c Commit) HasAuthor() bool {
	return c.Author != ""
}

// markerRe matches an exact release marker such as 3.4.55
var markerRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// ErrNotMarker is returned by ParseVersion for anything but a dotted triple
var ErrNotMarker = errors.New("not a version marker")

// Version is a MAJOR.MINOR.PATCH release marker. The marker text is kept
// as written, leading zeros included.
type Version struct {
	Major int64
	Minor int64
	Patch int64

	raw      string
	patchPos int
}

// ParseVersion parses a release marker. The whole string must be a
// dotted triple; prefixes, suffixes and prerelease tags yield ErrNotMarker.
// A marker whose numbers do not fit in 64 bits is still a marker and
// yields a parse error.
func ParseVersion(s string) (Version, error) {
	loc := markerRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return Version{}, ErrNotMarker
	}

	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if sv.Patch == math.MaxInt64 {
		return Version{}, fmt.Errorf("invalid version %q: patch cannot be incremented", s)
	}

	return Version{
		Major:    sv.Major,
		Minor:    sv.Minor,
		Patch:    sv.Patch,
		raw:      s,
		patchPos: loc[6],
	}, nil
}

// IsMarker reports whether s is exactly a release marker
func IsMarker(s string) bool {
	return markerRe.MatchString(s)
}

// String returns the marker as it was parsed
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Next returns the version with PATCH incremented by one. Only the PATCH
// digits of the marker are rewritten; MAJOR and MINOR keep their text.
func (v Version) Next() Version {
	sv := semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	sv.BumpPatch()

	next := Version{Major: sv.Major, Minor: sv.Minor, Patch: sv.Patch}
	if v.raw != "" {
		next.raw = v.raw[:v.patchPos] + strconv.FormatInt(sv.Patch, 10)
		next.patchPos = v.patchPos
	}
	return next
}

// TreeState reports "clean" or "dirty" for the repository at dir
func TreeState(ctx context.Context, dir string) (string, error) {
	if _, err := run(ctx, dir, "git", "rev-parse", "--git-dir"); err != nil {
		return "", fmt.Errorf("not a git repository: %s", dir)
	}

	status, err := run(ctx, dir, "git", "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		return "clean", nil
	}
	return "dirty", nil
}

// run executes a command in dir and returns its output
func run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %s", err, stderr.String())
	}

	return stdout.String(), nil
}
