package pagecontext

import (
	"html/template"
	"sync"
	"time"

	"github.com/ctcl/ctclsite/internal/favicon"
	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/markdown"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/page"
	"github.com/ctcl/ctclsite/internal/site"
)

// Builder resolves page contexts against a snapshot.
type Builder struct {
	recorder  metrics.Recorder
	renderers sync.Map // page dir -> *markdown.Renderer
}

// NewBuilder returns a builder with no metrics.
func NewBuilder() *Builder {
	return &Builder{recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

func (b *Builder) renderer(pageDir string) *markdown.Renderer {
	if r, ok := b.renderers.Load(pageDir); ok {
		return r.(*markdown.Renderer)
	}
	r, _ := b.renderers.LoadOrStore(pageDir, markdown.NewRenderer(pageDir))
	return r.(*markdown.Renderer)
}

// Build produces the template context for page id in category.
func (b *Builder) Build(snap *site.Snapshot, category, id string) (Context, error) {
	start := time.Now()
	ctx, err := b.build(snap, category, id)
	b.recorder.ObserveContextDuration(category, time.Since(start))
	b.recorder.IncContextResult(category, resultFor(err))
	return ctx, err
}

func resultFor(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case ferrors.IsNotFound(err):
		return metrics.ResultNotFound
	case ferrors.IsValidation(err):
		return metrics.ResultInvalid
	default:
		return metrics.ResultFailed
	}
}

func (b *Builder) build(snap *site.Snapshot, category, id string) (Context, error) {
	cat, ok := page.ParseCategory(category)
	if !ok {
		return nil, ferrors.NotFoundError("unknown page category").
			WithContext("category", category).
			Build()
	}
	reg := snap.Pages(cat)
	p, ok := reg.Get(id)
	if !ok {
		return nil, ferrors.NotFoundError("page not found").
			WithContext("category", category).
			WithContext("page", id).
			Build()
	}
	if p.Type() == page.TypeLink {
		return nil, ferrors.ValidationError("link pages have no renderable body").
			WithContext("category", category).
			WithContext("page", id).
			Build()
	}
	th, ok := snap.Theme(p.Theme)
	if !ok {
		return nil, ferrors.NotFoundError("theme not found").
			WithContext("category", category).
			WithContext("page", id).
			WithContext("theme", p.Theme).
			Build()
	}

	fav := p.Favicon
	if fav == "" {
		fav = favicon.URL(p.Theme)
	}

	ctx := Context{
		KeyLink:       snap.AbsoluteURL(p.Link),
		KeyThemeName:  p.Theme,
		KeyThemeColor: th.Color,
		KeyFgColor:    th.FgColor,
		KeyTitle:      p.Title,
		KeyFavicon:    fav,
		KeyShowNavbar: p.ShowNavbar,
		KeyCategory:   category,
		KeyPageID:     id,
		KeyPType:      string(p.Type()),
		KeyNavbar:     snap.Navbar(),
		KeyThemeVars:  snap.ThemeVars(),
		KeyUserVars:   snap.UserVars(),
	}
	for key, val := range map[string]string{
		KeyDesc:      p.Desc,
		KeyKeywords:  p.Keywords,
		KeyIcon:      p.Icon,
		KeyIconTitle: p.IconTitle,
		KeyDate:      p.Date,
	} {
		if val != "" {
			ctx[key] = val
		}
	}

	md := b.renderer(snap.PageDir())
	switch body := p.Body.(type) {
	case *page.Sections:
		sections, err := renderSections(md, body)
		if err != nil {
			return nil, withPage(err, category, id)
		}
		ctx[KeySections] = sections
	case *page.Content:
		html, err := md.Render(body.Path, true)
		if err != nil {
			return nil, withPage(err, category, id)
		}
		ctx[KeyContent] = template.HTML(html) //nolint:gosec // rendered from site-owned markdown
	case *page.Linklist:
		ctx[KeyCats] = body.Cats
		ctx[KeyCatList] = linkGroups(reg, body)
	}

	if p.Menu != nil {
		menu, err := resolveMenu(reg, p.Menu)
		if err != nil {
			return nil, withPage(err, category, id)
		}
		ctx[KeyMenu] = menu
	}
	return ctx, nil
}

func renderSections(md *markdown.Renderer, body *page.Sections) (SectionList, error) {
	out := make(SectionList, 0, body.Sections.Len())
	for pair := body.Sections.Oldest(); pair != nil; pair = pair.Next() {
		sec := pair.Value
		html, err := md.Render(sec.Content, false)
		if err != nil {
			if ce, ok := ferrors.AsClassified(err); ok {
				return nil, ce.WithContext("section", pair.Key)
			}
			return nil, err
		}
		out = append(out, RenderedSection{
			Name:      pair.Key,
			Theme:     sec.Theme,
			Title:     sec.Title,
			Content:   template.HTML(html), //nolint:gosec // rendered from site-owned markdown
			FitScreen: sec.FitScreen,
			BgVid:     sec.BgVid,
			BgImg:     sec.BgImg,
		})
	}
	return out, nil
}

// resolveMenu resolves ids against the page's own category, in order.
func resolveMenu(reg *page.Registry, ids []string) ([]MenuItem, error) {
	menu := make([]MenuItem, 0, len(ids))
	for _, mid := range ids {
		p, ok := reg.Get(mid)
		if !ok {
			return nil, ferrors.NotFoundError("menu entry not found").
				WithContext("menu_entry", mid).
				Build()
		}
		menu = append(menu, MenuItem{ID: mid, Page: p})
	}
	return menu, nil
}

// linkGroups files the category's link pages under the linklist tabs by their cat field.
func linkGroups(reg *page.Registry, body *page.Linklist) []LinkGroup {
	groups := make([]LinkGroup, 0, body.Cats.Len())
	index := make(map[string]int, body.Cats.Len())
	for pair := body.Cats.Oldest(); pair != nil; pair = pair.Next() {
		index[pair.Key] = len(groups)
		groups = append(groups, LinkGroup{ID: pair.Key, Title: pair.Value.Title, Theme: pair.Value.Theme})
	}
	for _, lid := range reg.IDs() {
		p, _ := reg.Get(lid)
		if p.Type() != page.TypeLink {
			continue
		}
		if i, ok := index[p.Cat]; ok {
			groups[i].Links = append(groups[i].Links, MenuItem{ID: lid, Page: p})
		}
	}
	return groups
}

func withPage(err error, category, id string) error {
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.WithContext("category", category).WithContext("page", id)
	}
	return err
}
