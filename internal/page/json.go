package page

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// wirePage is the flat on-disk record; every variant field is optional here and
// checked against the type tag after decoding.
type wirePage struct {
	Type       Type                                         `json:"type"`
	Link       string                                       `json:"link"`
	Theme      string                                       `json:"theme,omitempty"`
	Title      string                                       `json:"title"`
	Desc       string                                       `json:"desc,omitempty"`
	Keywords   string                                       `json:"keywords,omitempty"`
	Favicon    string                                       `json:"favicon,omitempty"`
	Icon       string                                       `json:"icon,omitempty"`
	IconTitle  string                                       `json:"icontitle,omitempty"`
	Cat        string                                       `json:"cat,omitempty"`
	Date       string                                       `json:"date,omitempty"`
	ShowNavbar *bool                                        `json:"shownavbar,omitempty"`
	Sections   *orderedmap.OrderedMap[string, Section]      `json:"sections,omitempty"`
	Content    string                                       `json:"content,omitempty"`
	Cats       *orderedmap.OrderedMap[string, LinkCategory] `json:"cats,omitempty"`
	Menu       []string                                     `json:"menu"`
}

// MarshalJSON writes the flat record form.
func (p Page) MarshalJSON() ([]byte, error) {
	navbar := p.ShowNavbar
	w := wirePage{
		Type:       p.Type(),
		Link:       p.Link,
		Theme:      p.Theme,
		Title:      p.Title,
		Desc:       p.Desc,
		Keywords:   p.Keywords,
		Favicon:    p.Favicon,
		Icon:       p.Icon,
		IconTitle:  p.IconTitle,
		Cat:        p.Cat,
		Date:       p.Date,
		ShowNavbar: &navbar,
		Menu:       p.Menu,
	}
	switch b := p.Body.(type) {
	case *Sections:
		w.Sections = b.Sections
	case *Content:
		w.Content = b.Path
	case *Linklist:
		w.Cats = b.Cats
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a flat record and checks it against its type tag.
func (p *Page) UnmarshalJSON(data []byte) error {
	var w wirePage
	if err := decodeStrict(data, &w); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "malformed page record").Build()
	}

	body, err := w.body()
	if err != nil {
		return err
	}
	if w.Theme == "" && w.Type != TypeLink {
		return ferrors.ConfigError("page requires a theme").
			WithContext("type", string(w.Type)).
			Build()
	}

	*p = Page{
		Link:       w.Link,
		Theme:      w.Theme,
		Title:      w.Title,
		Desc:       w.Desc,
		Keywords:   w.Keywords,
		Favicon:    w.Favicon,
		Icon:       w.Icon,
		IconTitle:  w.IconTitle,
		Cat:        w.Cat,
		Date:       w.Date,
		ShowNavbar: w.ShowNavbar == nil || *w.ShowNavbar,
		Menu:       w.Menu,
		Body:       body,
	}
	return nil
}

func (w *wirePage) body() (Body, error) {
	illegal := func(field string) error {
		return ferrors.ConfigError("field not allowed for page type").
			WithContext("type", string(w.Type)).
			WithContext("field", field).
			Build()
	}
	required := func(field string) error {
		return ferrors.ConfigError("page type requires field").
			WithContext("type", string(w.Type)).
			WithContext("field", field).
			Build()
	}

	switch w.Type {
	case TypeSections:
		switch {
		case w.Sections == nil:
			return nil, required("sections")
		case w.Content != "":
			return nil, illegal("content")
		case w.Cats != nil:
			return nil, illegal("cats")
		}
		return &Sections{Sections: w.Sections}, nil
	case TypeContent:
		switch {
		case w.Content == "":
			return nil, required("content")
		case w.Sections != nil:
			return nil, illegal("sections")
		case w.Cats != nil:
			return nil, illegal("cats")
		}
		return &Content{Path: w.Content}, nil
	case TypeLinklist:
		switch {
		case w.Cats == nil:
			return nil, required("cats")
		case w.Sections != nil:
			return nil, illegal("sections")
		case w.Content != "":
			return nil, illegal("content")
		}
		return &Linklist{Cats: w.Cats}, nil
	case TypeLink:
		switch {
		case w.Sections != nil:
			return nil, illegal("sections")
		case w.Content != "":
			return nil, illegal("content")
		case w.Cats != nil:
			return nil, illegal("cats")
		case len(w.Menu) > 0:
			return nil, illegal("menu")
		}
		return &Link{}, nil
	default:
		return nil, ferrors.ConfigError("unknown page type").
			WithContext("type", string(w.Type)).
			Build()
	}
}

type wireSection struct {
	Theme     string `json:"theme"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FitScreen *bool  `json:"fitscreen,omitempty"`
	BgVid     string `json:"bgvid,omitempty"`
	BgImg     string `json:"bgimg,omitempty"`
}

// UnmarshalJSON decodes a section, defaulting fitscreen to true. Unknown
// fields are rejected as on Page.
func (s *Section) UnmarshalJSON(data []byte) error {
	var w wireSection
	if err := decodeStrict(data, &w); err != nil {
		return err
	}
	*s = Section{
		Theme:     w.Theme,
		Title:     w.Title,
		Content:   w.Content,
		FitScreen: w.FitScreen == nil || *w.FitScreen,
		BgVid:     w.BgVid,
		BgImg:     w.BgImg,
	}
	return nil
}

// UnmarshalJSON decodes a link category, rejecting unknown fields.
func (c *LinkCategory) UnmarshalJSON(data []byte) error {
	type plain LinkCategory
	var w plain
	if err := decodeStrict(data, &w); err != nil {
		return err
	}
	*c = LinkCategory(w)
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
