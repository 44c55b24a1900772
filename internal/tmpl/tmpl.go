/*
Package tmpl provides template processing for Bumper.
*/
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/oarkflow/bumper/internal/config"
)

// Context provides template context and rendering
type Context struct {
	config *config.Config
	data   map[string]interface{}
}

// New creates a new template context for a release
func New(cfg *config.Config, version string, code int) *Context {
	ctx := &Context{
		config: cfg,
		data:   make(map[string]interface{}),
	}
	ctx.init(version, code)
	return ctx
}

// init initializes the template data
func (c *Context) init(version string, code int) {
	now := time.Now()

	c.data["Version"] = version
	c.data["Code"] = code
	c.data["Owner"] = c.config.GitHub.Owner
	c.data["Repo"] = c.config.GitHub.Repo
	c.data["Date"] = now.Format("2006-01-02")
	c.data["Now"] = now
}

// Apply applies the template to a string
func (c *Context) Apply(tmpl string) (string, error) {
	t, err := template.New("").Funcs(c.funcs()).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, c.data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// VersionStatement renders the statement placed in the version region
func (c *Context) VersionStatement() (string, error) {
	out, err := c.Apply(c.config.VersionRegion.Template)
	if err != nil {
		return "", fmt.Errorf("failed to render version_region.template: %w", err)
	}
	return out, nil
}

func (c *Context) funcs() template.FuncMap {
	return template.FuncMap{
		"replace":    strings.ReplaceAll,
		"tolower":    strings.ToLower,
		"toupper":    strings.ToUpper,
		"trim":       strings.TrimSpace,
		"trimprefix": strings.TrimPrefix,
		"trimsuffix": strings.TrimSuffix,
		"quote": func(s string) string {
			return fmt.Sprintf("%q", s)
		},
	}
}
