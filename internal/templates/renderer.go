// Package templates compiles the sprig-enabled text templates used for
// configurable upstream routes.
package templates

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
)

// hostFuncs reach the process environment or the filesystem. Route templates
// only ever see the query they are rendered with.
var hostFuncs = map[string]struct{}{
	"env":          {},
	"expandenv":    {},
	"readDir":      {},
	"mustReadDir":  {},
	"readFile":     {},
	"mustReadFile": {},
	"glob":         {},
}

// Renderer compiles route templates against sprig's text helpers minus
// hostFuncs.
type Renderer struct {
	funcs template.FuncMap
}

// Template is a compiled route. It is safe for concurrent use.
type Template struct {
	name string
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	all := sprig.TxtFuncMap()
	funcs := make(template.FuncMap, len(all))
	for name, fn := range all {
		if _, blocked := hostFuncs[name]; blocked {
			continue
		}
		funcs[name] = fn
	}
	return &Renderer{funcs: funcs}
}

// CompileInline parses source under name. A blank source yields a nil
// template so optional route overrides can be skipped by the caller. Fields
// missing from the render data fail at render time.
func (r *Renderer) CompileInline(name, source string) (*Template, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}
	if name == "" {
		name = "inline"
	}
	parsed, err := template.New(name).
		Option("missingkey=error").
		Funcs(r.funcs).
		Parse(source)
	if err != nil {
		return nil, fmt.Errorf("templates: compile %q: %w", name, err)
	}
	return &Template{name: name, tmpl: parsed}, nil
}

func (t *Template) Render(data any) (string, error) {
	if t == nil {
		return "", errors.New("templates: nil template")
	}
	var out strings.Builder
	if err := t.tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("templates: render %q: %w", t.name, err)
	}
	return out.String(), nil
}

// Name is the route name the template was compiled under.
func (t *Template) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}
