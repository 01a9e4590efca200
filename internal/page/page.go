package page

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Type is the page variant tag (JSON key "type").
type Type string

const (
	TypeSections Type = "sections"
	TypeContent  Type = "content"
	TypeLinklist Type = "linklist"
	TypeLink     Type = "link"
)

// Page is one page record. Body holds the variant data.
type Page struct {
	Link      string
	Theme     string
	Title     string
	Desc      string
	Keywords  string
	Favicon   string
	Icon      string
	IconTitle string
	Cat       string
	Date      string
	// ShowNavbar defaults to true when absent from the record.
	ShowNavbar bool
	// Menu lists sibling page ids in display order.
	Menu []string
	Body Body
}

// Type returns the variant tag of the page body.
func (p *Page) Type() Type {
	if p.Body == nil {
		return ""
	}
	return p.Body.Type()
}

// Body is the variant part of a Page.
type Body interface {
	Type() Type
	isBody()
}

// Sections is a page made of full-viewport blocks rendered in insertion order.
type Sections struct {
	Sections *orderedmap.OrderedMap[string, Section]
}

// Content is a single prose page backed by one markdown file.
type Content struct {
	Path string
}

// Linklist is a page of external links grouped into tabs.
type Linklist struct {
	Cats *orderedmap.OrderedMap[string, LinkCategory]
}

// Link is a routing-only stub with no renderable body.
type Link struct{}

func (*Sections) Type() Type { return TypeSections }
func (*Content) Type() Type  { return TypeContent }
func (*Linklist) Type() Type { return TypeLinklist }
func (*Link) Type() Type     { return TypeLink }

func (*Sections) isBody() {}
func (*Content) isBody()  {}
func (*Linklist) isBody() {}
func (*Link) isBody()     {}

// Section is one block of a sectioned page. Content is a markdown path until
// the page context is built.
type Section struct {
	Theme     string `json:"theme"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FitScreen bool   `json:"fitscreen"`
	BgVid     string `json:"bgvid,omitempty"`
	BgImg     string `json:"bgimg,omitempty"`
}

// LinkCategory describes one tab of a linklist page.
type LinkCategory struct {
	Title string `json:"title"`
	Theme string `json:"theme"`
}

// Themes returns every theme id the page references: its own, then those of its
// sections or link categories, in declaration order.
func (p *Page) Themes() []string {
	themes := []string{}
	if p.Theme != "" {
		themes = append(themes, p.Theme)
	}
	switch b := p.Body.(type) {
	case *Sections:
		for pair := b.Sections.Oldest(); pair != nil; pair = pair.Next() {
			themes = append(themes, pair.Value.Theme)
		}
	case *Linklist:
		for pair := b.Cats.Oldest(); pair != nil; pair = pair.Next() {
			themes = append(themes, pair.Value.Theme)
		}
	}
	return themes
}
