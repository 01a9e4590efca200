// Package templates loads the site's html/template set and picks the template
// for a page.
package templates

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// Fallback is the template used when nothing more specific exists.
const Fallback = "page.html"

// Set is a parsed template directory. Names are slash-separated paths relative
// to the directory, e.g. "about.html" or "partials/head.html".
type Set struct {
	tpl   *template.Template
	names map[string]bool
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"year":  func() int { return time.Now().UTC().Year() },
		"lower": strings.ToLower,
	}
}

// Load parses every *.html file below dir.
func Load(dir string) (*Set, error) {
	set := &Set{tpl: template.New("").Funcs(funcs()), names: map[string]bool{}}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := set.tpl.New(name).Parse(string(data)); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryTemplate, "failed to parse template").
				WithContext("path", path).
				Build()
		}
		set.names[name] = true
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "template directory not found").
				WithContext("path", dir).
				Build()
		}
		if _, ok := ferrors.AsClassified(err); ok {
			return nil, err
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read templates").
			WithContext("path", dir).
			Build()
	}
	return set, nil
}

// Names returns the loaded template names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup picks the most specific template for a page: <category>_<ptype>.html,
// then <category>.html, then <ptype>.html, then page.html.
func (s *Set) Lookup(category, ptype string) (string, error) {
	for _, name := range []string{
		category + "_" + ptype + ".html",
		category + ".html",
		ptype + ".html",
		Fallback,
	} {
		if s.names[name] {
			return name, nil
		}
	}
	return "", ferrors.NotFoundError("no template for page").
		WithContext("category", category).
		WithContext("ptype", ptype).
		Build()
}

// Render executes the named template. Output is buffered so a failed render
// writes nothing to w.
func (s *Set) Render(w io.Writer, name string, data any) error {
	if !s.names[name] {
		return ferrors.NotFoundError("template not found").
			WithContext("template", name).
			Build()
	}
	var buf bytes.Buffer
	if err := s.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryTemplate, "failed to render template").
			WithContext("template", name).
			Build()
	}
	_, err := buf.WriteTo(w)
	return err
}
