package page

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/theme"
)

// Registry indexes the pages of one category by id. It has no mutators.
type Registry struct {
	pages map[string]*Page
	ids   []string
}

// NewRegistry indexes pages by id.
func NewRegistry(pages map[string]*Page) *Registry {
	r := &Registry{pages: make(map[string]*Page, len(pages)), ids: make([]string, 0, len(pages))}
	for id, p := range pages {
		r.pages[id] = p
		r.ids = append(r.ids, id)
	}
	sort.Strings(r.ids)
	return r
}

// Get returns the page with the given id.
func (r *Registry) Get(id string) (*Page, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.pages[id]
	return p, ok
}

// IDs returns the page ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.ids...)
}

// Len returns the number of pages.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

// Registries holds one Registry per category.
type Registries map[Category]*Registry

// Len returns the total number of pages across categories.
func (rs Registries) Len() int {
	n := 0
	for _, r := range rs {
		n += r.Len()
	}
	return n
}

// LoadFile decodes one category file: a JSON object of page id to page record.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "page file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read page file").
			WithContext("path", path).
			Build()
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "malformed page file").
			WithContext("path", path).
			Build()
	}

	pages := make(map[string]*Page, len(raw))
	for id, msg := range raw {
		var p Page
		if err := json.Unmarshal(msg, &p); err != nil {
			if ce, ok := ferrors.AsClassified(err); ok {
				return nil, ce.WithContext("page", id).WithContext("path", path)
			}
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "malformed page record").
				WithContext("page", id).
				WithContext("path", path).
				Build()
		}
		pages[id] = &p
	}
	return NewRegistry(pages), nil
}

// LoadRegistries loads every category file named in paths and checks that each
// theme referenced by a page, section or link category exists in themes.
func LoadRegistries(paths map[string]string, themes theme.Registry) (Registries, error) {
	regs := make(Registries, len(Categories))
	for _, cat := range Categories {
		path := paths[string(cat)]
		if path == "" {
			return nil, ferrors.ConfigError("missing page configuration path").
				WithContext("category", string(cat)).
				Build()
		}
		reg, err := LoadFile(path)
		if err != nil {
			if ce, ok := ferrors.AsClassified(err); ok {
				return nil, ce.WithContext("category", string(cat))
			}
			return nil, err
		}
		if err := validateThemes(cat, reg, themes); err != nil {
			return nil, err
		}
		regs[cat] = reg
	}
	return regs, nil
}

func validateThemes(cat Category, reg *Registry, themes theme.Registry) error {
	for _, id := range reg.IDs() {
		p, _ := reg.Get(id)
		for _, th := range p.Themes() {
			if !themes.Has(th) {
				return ferrors.NotFoundError("unknown theme referenced by page").
					WithContext("category", string(cat)).
					WithContext("page", id).
					WithContext("theme", th).
					Build()
			}
		}
	}
	return nil
}
