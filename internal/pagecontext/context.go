package pagecontext

import (
	"html/template"

	"github.com/ctcl/ctclsite/internal/page"
)

// Context keys.
const (
	KeyLink       = "link"
	KeyThemeName  = "themename"
	KeyThemeColor = "themecolor"
	KeyFgColor    = "fgcolor"
	KeyTitle      = "title"
	KeyDesc       = "desc"
	KeyKeywords   = "keywords"
	KeyFavicon    = "favicon"
	KeyShowNavbar = "shownavbar"
	KeySections   = "sections"
	KeyContent    = "content"
	KeyCats       = "cats"
	KeyCatList    = "catlist"
	KeyMenu       = "menu"
	KeyCategory   = "category"
	KeyPageID     = "pageid"
	KeyPType      = "ptype"
	KeyNavbar     = "navbar"
	KeyThemeVars  = "themevars"
	KeyUserVars   = "uservars"
	KeyIcon       = "icon"
	KeyIconTitle  = "icontitle"
	KeyDate       = "date"
)

// Context is the flat template context for one page.
type Context map[string]any

// String returns a string-valued key, or "" when absent.
func (c Context) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Category returns the page category the context was built for.
func (c Context) Category() string { return c.String(KeyCategory) }

// PType returns the page type the context was built for.
func (c Context) PType() string { return c.String(KeyPType) }

// RenderedSection is a section whose markdown body has been rendered.
type RenderedSection struct {
	Name      string
	Theme     string
	Title     string
	Content   template.HTML
	FitScreen bool
	BgVid     string
	BgImg     string
}

// SectionList keeps rendered sections in declaration order.
type SectionList []RenderedSection

// Get returns the section with the given name.
func (l SectionList) Get(name string) (RenderedSection, bool) {
	for _, s := range l {
		if s.Name == name {
			return s, true
		}
	}
	return RenderedSection{}, false
}

// Names returns the section names in render order.
func (l SectionList) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.Name
	}
	return names
}

// MenuItem is one resolved menu entry.
type MenuItem struct {
	ID string
	*page.Page
}

// LinkGroup is one linklist tab with the link pages filed under it.
type LinkGroup struct {
	ID    string
	Title string
	Theme string
	Links []MenuItem
}
