/*
Package changelog derives the next release and its changelog section from commit history.
*/
package changelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/bumper/internal/config"
	"github.com/oarkflow/bumper/internal/git"
)

// ErrNoPreviousVersion is returned when the fetched commits contain no release marker
var ErrNoPreviousVersion = errors.New("no previous version marker in fetched commits")

var (
	// prRefParenRe matches a PR back-reference like (#2345)
	prRefParenRe = regexp.MustCompile(`\(#\d+\)`)
	// prRefRe matches a bare PR back-reference like #2345
	prRefRe = regexp.MustCompile(`#\d+`)
)

// AuthorGroup holds the changelog lines contributed by one author
type AuthorGroup struct {
	Author  string   `json:"author" yaml:"author"`
	Commits []string `json:"commits" yaml:"commits"`
}

// Release is the derived next release
type Release struct {
	// Version is the next version string, empty when Found is false
	Version string `json:"version" yaml:"version"`

	// Previous is the marker commit the version was derived from
	Previous string `json:"previous" yaml:"previous"`

	// Found reports whether a marker commit was seen
	Found bool `json:"found" yaml:"found"`

	// Primary lists the primary author's lines in commit order
	Primary []string `json:"primary,omitempty" yaml:"primary,omitempty"`

	// Groups lists the other authors in first-seen order
	Groups []AuthorGroup `json:"groups,omitempty" yaml:"groups,omitempty"`

	// Body is the rendered changelog body
	Body string `json:"body" yaml:"body"`
}

// Entry returns the block prepended to the changelog file
func (r Release) Entry() string {
	return "## " + r.Version + r.Body + "\n\n"
}

// Deriver scans commits for the previous release and collects the changes since
type Deriver struct {
	// Bot is the automation login whose commits are ignored
	Bot string

	// Primary is the maintainer login listed without attribution
	Primary string

	// SkipPrefixes drops noise subjects such as merges
	SkipPrefixes []string
}

// NewDeriver creates a deriver from configuration
func NewDeriver(cfg *config.Config) *Deriver {
	return &Deriver{
		Bot:          cfg.Authors.Bot,
		Primary:      cfg.Authors.Primary,
		SkipPrefixes: cfg.Filters.SkipPrefixes,
	}
}

// Derive walks commits newest first until the previous release marker.
// Commits older than the marker are never looked at. A marker that cannot
// be parsed is an error; no marker at all is reported through Found.
func (d *Deriver) Derive(commits []git.Commit) (Release, error) {
	var rel Release
	var order []string
	byAuthor := make(map[string][]string)

	for _, c := range commits {
		if !c.HasAuthor() || c.Author == d.Bot {
			continue
		}

		subject := c.Subject()

		if git.IsMarker(subject) {
			v, err := git.ParseVersion(subject)
			if err != nil {
				return Release{}, fmt.Errorf("unusable version marker: %w", err)
			}
			rel.Found = true
			rel.Previous = v.String()
			rel.Version = v.Next().String()
			log.Info("Previous version", "version", rel.Previous)
			log.Info("Next version", "version", rel.Version)
			break
		}

		if d.skipped(subject) {
			log.Debug("Skipping commit", "hash", c.Hash, "subject", subject)
			continue
		}

		line := StripPRReferences(subject)
		if c.Author == d.Primary {
			rel.Primary = append(rel.Primary, line)
			continue
		}
		if _, ok := byAuthor[c.Author]; !ok {
			order = append(order, c.Author)
		}
		byAuthor[c.Author] = append(byAuthor[c.Author], line)
	}

	for _, author := range order {
		rel.Groups = append(rel.Groups, AuthorGroup{Author: author, Commits: byAuthor[author]})
	}
	rel.Body = Render(rel.Primary, rel.Groups)

	return rel, nil
}

func (d *Deriver) skipped(subject string) bool {
	for _, prefix := range d.SkipPrefixes {
		if strings.HasPrefix(subject, prefix) {
			return true
		}
	}
	return false
}

// StripPRReferences removes the first "(#123)" and then the first "#123"
// from a subject, along with trailing whitespace
func StripPRReferences(subject string) string {
	subject = replaceFirst(prRefParenRe, subject)
	subject = replaceFirst(prRefRe, subject)
	return strings.TrimRight(subject, " \t")
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// Render builds the changelog body. Every paragraph is preceded by a blank
// line: primary lines first, then one paragraph per other author.
func Render(primary []string, groups []AuthorGroup) string {
	var sb strings.Builder

	for _, line := range primary {
		sb.WriteString("\n\n")
		sb.WriteString(line)
	}

	for _, g := range groups {
		if len(g.Commits) == 1 {
			sb.WriteString("\n\n")
			sb.WriteString(g.Commits[0])
			sb.WriteString("- By ")
			sb.WriteString(g.Author)
			continue
		}

		sb.WriteString("\n\nBy ")
		sb.WriteString(g.Author)
		sb.WriteString(":")
		for _, line := range g.Commits {
			sb.WriteString("\n- ")
			sb.WriteString(line)
		}
	}

	return sb.String()
}

// Format renders a release as markdown, json or yaml
func Format(rel Release, format string) (string, error) {
	switch format {
	case "", "markdown", "md":
		return rel.Entry(), nil
	case "json":
		data, err := json.MarshalIndent(rel, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(rel)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
