package patch

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"
)

// Region is a block of source delimited by two marker lines
type Region struct {
	Start  string
	End    string
	Indent string
}

func (r Region) pattern() (*regexp.Regexp, error) {
	return regexp.Compile(`(?s)(` + regexp.QuoteMeta(r.Start) + `)(.*?)(` + regexp.QuoteMeta(r.End) + `)`)
}

// ReplaceRegion replaces everything between the first Start marker and the
// following End marker with a single indented statement. It reports false,
// returning src unchanged, when the markers are missing.
func ReplaceRegion(src string, region Region, statement string) (string, bool, error) {
	re, err := region.pattern()
	if err != nil {
		return "", false, fmt.Errorf("invalid region markers: %w", err)
	}

	loc := re.FindStringIndex(src)
	if loc == nil {
		return src, false, nil
	}

	block := region.Start + "\n" + region.Indent + statement + "\n" + region.Indent + region.End
	return src[:loc[0]] + block + src[loc[1]:], true, nil
}

// VersionRegion rewrites the generated version block of a source file.
// Missing markers are logged and leave the file as it was.
func (p *Patcher) VersionRegion(path string, region Region, statement string) (bool, error) {
	src, err := p.read(path)
	if err != nil {
		return false, err
	}

	out, found, err := ReplaceRegion(src, region, statement)
	if err != nil {
		return false, err
	}
	if !found {
		log.Warn("Version region markers not found, file left unchanged", "path", path)
		return false, nil
	}

	if err := p.write(path, out); err != nil {
		return false, err
	}
	log.Info("Version declaration updated", "path", path, "statement", statement)
	return true, nil
}
