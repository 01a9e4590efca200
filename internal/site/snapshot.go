package site

import (
	"maps"
	"net"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/ctcl/ctclsite/internal/config"
	"github.com/ctcl/ctclsite/internal/page"
	"github.com/ctcl/ctclsite/internal/theme"
)

// Snapshot is the resolved, read-only site state.
type Snapshot struct {
	cfg    config.Config
	fonts  theme.Fonts
	themes theme.Registry
	pages  page.Registries
	routes map[string]Route
}

// Addr returns the configured listen address.
func (s *Snapshot) Addr() string {
	return net.JoinHostPort(s.cfg.BindIP, strconv.Itoa(s.cfg.BindPort))
}

func (s *Snapshot) SiteURL() string      { return s.cfg.SiteURL }
func (s *Snapshot) PageDir() string      { return s.cfg.PageDir }
func (s *Snapshot) OutputDir() string    { return s.cfg.OutputDir }
func (s *Snapshot) TemplateDir() string  { return s.cfg.TemplateDir }
func (s *Snapshot) DefaultTheme() string { return s.cfg.DefaultTheme }

// Logging returns the configured logging settings.
func (s *Snapshot) Logging() config.LoggingConfig { return s.cfg.Logging }

// AbsoluteURL is the site URL followed by the page link, verbatim. Slashes
// are not normalized: a trailing slash on siteurl doubles up with a rooted link.
func (s *Snapshot) AbsoluteURL(link string) string {
	return s.cfg.SiteURL + link
}

// Redirects returns a copy of the redirect table.
func (s *Snapshot) Redirects() map[string]string { return maps.Clone(s.cfg.Redirects) }

// Redirect looks up the redirect target for a request path.
func (s *Snapshot) Redirect(path string) (string, bool) {
	if target, ok := s.cfg.Redirects[path]; ok {
		return target, true
	}
	target, ok := s.cfg.Redirects[NormalizeRoute(path)]
	return target, ok
}

// Navbar returns a copy of the navigation bar entries.
func (s *Snapshot) Navbar() []config.NavLink { return slices.Clone(s.cfg.Navbar) }

// ThemeVars returns the free-form theme variables; callers must not modify them.
func (s *Snapshot) ThemeVars() map[string]any { return s.cfg.ThemeVars }

// UserVars returns the free-form user variables; callers must not modify them.
func (s *Snapshot) UserVars() map[string]any { return s.cfg.UserVars }

// Theme looks up a theme by id.
func (s *Snapshot) Theme(id string) (theme.Theme, bool) {
	th, ok := s.themes[id]
	return th, ok
}

// ThemeIDs returns every theme id in sorted order.
func (s *Snapshot) ThemeIDs() []string { return s.themes.IDs() }

// Font looks up a font family by id.
func (s *Snapshot) Font(id string) (theme.FontFamily, bool) {
	f, ok := s.fonts[id]
	return f, ok
}

// Fonts returns the number of loaded font families.
func (s *Snapshot) Fonts() int { return len(s.fonts) }

// Pages returns the registry for a category, or nil for an unknown category.
func (s *Snapshot) Pages(cat page.Category) *page.Registry { return s.pages[cat] }

// PageCount returns the number of pages across categories.
func (s *Snapshot) PageCount() int { return s.pages.Len() }

// Route resolves a request path to the page it serves.
func (s *Snapshot) Route(path string) (Route, bool) {
	r, ok := s.routes[NormalizeRoute(path)]
	return r, ok
}

// Routes returns every routed page sorted by path.
func (s *Snapshot) Routes() []Route { return sortedRoutes(s.routes) }

// Holder publishes the current snapshot. Readers always see a complete
// snapshot; a replacement is built off to the side and swapped in with Store.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder publishing s.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Snapshot { return h.current.Load() }

// Store replaces the current snapshot.
func (h *Holder) Store(s *Snapshot) { h.current.Store(s) }
