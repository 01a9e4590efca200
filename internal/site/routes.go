package site

import (
	"sort"
	"strings"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/page"
)

// Route locates the page served at a path.
type Route struct {
	Path     string
	Category page.Category
	ID       string
}

// NormalizeRoute canonicalizes a request or page path: leading slash, no
// trailing slash except for the root.
func NormalizeRoute(p string) string {
	return "/" + strings.Trim(strings.TrimSpace(p), "/")
}

// isExternal reports whether a link leaves the site.
func isExternal(link string) bool {
	return strings.Contains(link, "://") || strings.HasPrefix(link, "mailto:")
}

func buildRoutes(regs page.Registries) (map[string]Route, error) {
	routes := map[string]Route{}
	for _, cat := range page.Categories {
		reg := regs[cat]
		for _, id := range reg.IDs() {
			p, _ := reg.Get(id)
			if p.Type() == page.TypeLink || isExternal(p.Link) {
				continue
			}
			path := NormalizeRoute(p.Link)
			if prev, dup := routes[path]; dup {
				return nil, ferrors.ConfigError("duplicate page route").
					WithContext("path", path).
					WithContext("page", string(cat)+"/"+id).
					WithContext("conflict", string(prev.Category)+"/"+prev.ID).
					Build()
			}
			routes[path] = Route{Path: path, Category: cat, ID: id}
		}
	}
	return routes, nil
}

func sortedRoutes(routes map[string]Route) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
