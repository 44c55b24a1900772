package changelog

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/oarkflow/bumper/internal/git"
)

// Versions returns the release versions found as "## x.y.z" headings in a
// changelog, in file order (newest first for a prepended changelog)
func Versions(source []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var versions []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level == 2 {
			if title := headingText(heading, source); git.IsMarker(title) {
				versions = append(versions, title)
			}
		}
		return ast.WalkSkipChildren, nil
	})

	return versions
}

// Latest returns the newest version in a changelog
func Latest(source []byte) (string, bool) {
	versions := Versions(source)
	if len(versions) == 0 {
		return "", false
	}
	return versions[0], true
}

func headingText(h *ast.Heading, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
