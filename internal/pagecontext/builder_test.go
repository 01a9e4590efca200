package pagecontext

import (
	"html/template"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/site"
	"github.com/ctcl/ctclsite/internal/testutil"
)

func load(t *testing.T, sb *testutil.SiteBuilder) *site.Snapshot {
	t.Helper()
	snap, err := site.NewLoader(sb.Build()).Load()
	require.NoError(t, err)
	return snap
}

// headingIDs returns the id attribute of every heading element in doc.
func headingIDs(t *testing.T, doc string) []string {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var ids []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6' {
			for _, a := range n.Attr {
				if a.Key == "id" {
					ids = append(ids, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return ids
}

func TestBuild_DefaultFaviconAndThemeColor(t *testing.T) {
	snap := load(t, testutil.NewSiteBuilder(t))

	ctx, err := NewBuilder().Build(snap, "about", "home")
	require.NoError(t, err)

	assert.Equal(t, "static/favicons/default_dark.ico", ctx[KeyFavicon])
	assert.Equal(t, "#202020", ctx[KeyThemeColor])
	assert.Equal(t, "#f0f0f0", ctx[KeyFgColor])
	assert.Equal(t, "dark", ctx[KeyThemeName])
	assert.Equal(t, "https://example.org/", ctx[KeyLink])
	assert.Equal(t, "Home", ctx[KeyTitle])
	assert.Equal(t, true, ctx[KeyShowNavbar])
	assert.Equal(t, "about", ctx.Category())
	assert.Equal(t, "content", ctx.PType())
	assert.Equal(t, "home", ctx[KeyPageID])
	assert.NotContains(t, ctx, KeyDesc, "unset optional fields are omitted")
	assert.NotContains(t, ctx, KeyMenu)
}

func TestBuild_ExplicitFaviconAndOptionals(t *testing.T) {
	sb := testutil.NewSiteBuilder(t).
		WithPage("about", "home", `{"type":"content","link":"/","theme":"dark","title":"Home","content":"home.md",
			"favicon":"/static/me.ico","desc":"About me","keywords":"go,web","date":"2024-01-02","shownavbar":false}`)
	ctx, err := NewBuilder().Build(load(t, sb), "about", "home")
	require.NoError(t, err)

	assert.Equal(t, "/static/me.ico", ctx[KeyFavicon])
	assert.Equal(t, "About me", ctx[KeyDesc])
	assert.Equal(t, "go,web", ctx[KeyKeywords])
	assert.Equal(t, "2024-01-02", ctx[KeyDate])
	assert.Equal(t, false, ctx[KeyShowNavbar])
}

func TestBuild_SectionsWithoutAnchorsContentWithAnchors(t *testing.T) {
	sb := testutil.NewSiteBuilder(t).
		WithTheme("light", "#ffffff", "#000000").
		WithPage("projects", "showcase", `{"type":"sections","link":"/projects","theme":"dark","title":"Projects",
			"sections":{
				"intro":{"theme":"dark","title":"Intro","content":"intro.md"},
				"outro":{"theme":"light","title":"Outro","content":"outro.md","fitscreen":false,"bgimg":"bg.png"}
			}}`).
		WithFile("pages/intro.md", "# Intro Heading\n\nFirst section.\n").
		WithFile("pages/outro.md", "## Outro Heading\n")
	snap := load(t, sb)
	b := NewBuilder()

	ctx, err := b.Build(snap, "projects", "showcase")
	require.NoError(t, err)

	sections, ok := ctx[KeySections].(SectionList)
	require.True(t, ok)
	assert.Equal(t, []string{"intro", "outro"}, sections.Names())

	intro, ok := sections.Get("intro")
	require.True(t, ok)
	assert.Contains(t, string(intro.Content), "<h1>Intro Heading</h1>")
	assert.Empty(t, headingIDs(t, string(intro.Content)))
	assert.True(t, intro.FitScreen)

	outro, _ := sections.Get("outro")
	assert.Equal(t, "light", outro.Theme)
	assert.False(t, outro.FitScreen)
	assert.Equal(t, "bg.png", outro.BgImg)
	assert.NotContains(t, ctx, KeyContent)

	home, err := b.Build(snap, "about", "home")
	require.NoError(t, err)
	content, ok := home[KeyContent].(template.HTML)
	require.True(t, ok)
	assert.Equal(t, []string{"welcome"}, headingIDs(t, string(content)))
}

func TestBuild_Linklist(t *testing.T) {
	sb := testutil.NewSiteBuilder(t).
		WithPage("linklist", "links", `{"type":"linklist","link":"/links","theme":"dark","title":"Links",
			"cats":{"social":{"title":"Social","theme":"dark"},"code":{"title":"Code","theme":"dark"}}}`).
		WithPage("linklist", "gh", `{"type":"link","link":"https://github.com/ctcl","title":"GitHub","cat":"code"}`).
		WithPage("linklist", "masto", `{"type":"link","link":"https://fosstodon.org/@ctcl","title":"Mastodon","cat":"social"}`).
		WithPage("linklist", "orphan", `{"type":"link","link":"https://example.com","title":"Orphan","cat":"none"}`)

	ctx, err := NewBuilder().Build(load(t, sb), "linklist", "links")
	require.NoError(t, err)

	assert.Contains(t, ctx, KeyCats)
	groups, ok := ctx[KeyCatList].([]LinkGroup)
	require.True(t, ok)
	require.Len(t, groups, 2)
	assert.Equal(t, "social", groups[0].ID)
	require.Len(t, groups[0].Links, 1)
	assert.Equal(t, "Mastodon", groups[0].Links[0].Title)
	assert.Equal(t, "gh", groups[1].Links[0].ID)
}

func TestBuild_Errors(t *testing.T) {
	sb := testutil.NewSiteBuilder(t).
		WithPage("linklist", "gh", `{"type":"link","link":"https://github.com","title":"GitHub"}`).
		WithPage("blog", "broken", `{"type":"content","link":"/blog/broken","theme":"dark","title":"B","content":"missing.md"}`)
	snap := load(t, sb)
	b := NewBuilder()

	tests := []struct {
		name     string
		category string
		id       string
		isClass  func(error) bool
	}{
		{"unknown category", "gallery", "home", ferrors.IsNotFound},
		{"unknown page", "blog", "does-not-exist", ferrors.IsNotFound},
		{"page in another category", "blog", "home", ferrors.IsNotFound},
		{"link page", "linklist", "gh", ferrors.IsValidation},
		{"missing markdown source", "blog", "broken", ferrors.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := b.Build(snap, tt.category, tt.id)
			require.Error(t, err)
			assert.Nil(t, ctx)
			assert.True(t, tt.isClass(err), "unexpected class: %v", err)
		})
	}
}

func TestBuild_Menu(t *testing.T) {
	sb := testutil.NewSiteBuilder(t).
		WithPage("blog", "index", `{"type":"content","link":"/blog","theme":"dark","title":"Blog","content":"home.md","menu":["second","first"]}`).
		WithPage("blog", "first", `{"type":"content","link":"/blog/first","theme":"dark","title":"First","content":"home.md"}`).
		WithPage("blog", "second", `{"type":"content","link":"/blog/second","theme":"dark","title":"Second","content":"home.md"}`).
		WithPage("blog", "lost", `{"type":"content","link":"/blog/lost","theme":"dark","title":"Lost","content":"home.md","menu":["first","home","ghost"]}`)
	snap := load(t, sb)
	b := NewBuilder()

	ctx, err := b.Build(snap, "blog", "index")
	require.NoError(t, err)
	menu, ok := ctx[KeyMenu].([]MenuItem)
	require.True(t, ok)
	require.Len(t, menu, 2)
	assert.Equal(t, "second", menu[0].ID)
	assert.Equal(t, "Second", menu[0].Title)
	assert.Equal(t, "/blog/first", menu[1].Link)

	_, err = b.Build(snap, "blog", "lost")
	require.Error(t, err)
	assert.True(t, ferrors.IsNotFound(err))
	ce, _ := ferrors.AsClassified(err)
	missing, _ := ce.Context().GetString("menu_entry")
	assert.Equal(t, "home", missing, "menu ids resolve within the page's own category")
}

func TestBuild_EmptyMenuStillAttached(t *testing.T) {
	sb := testutil.NewSiteBuilder(t).
		WithPage("blog", "index", `{"type":"content","link":"/blog","theme":"dark","title":"Blog","content":"home.md","menu":[]}`)

	ctx, err := NewBuilder().Build(load(t, sb), "blog", "index")
	require.NoError(t, err)
	require.Contains(t, ctx, KeyMenu, "an explicit empty menu is kept")
	menu, ok := ctx[KeyMenu].([]MenuItem)
	require.True(t, ok)
	assert.Empty(t, menu)
}

type contextRecorder struct {
	metrics.NoopRecorder
	mu      sync.Mutex
	results map[string]int
}

func (r *contextRecorder) ObserveContextDuration(string, time.Duration) {}
func (r *contextRecorder) IncContextResult(category string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[category+"/"+string(result)]++
}

func TestBuild_RecordsOutcomes(t *testing.T) {
	snap := load(t, testutil.NewSiteBuilder(t))
	rec := &contextRecorder{results: map[string]int{}}
	b := NewBuilder().WithRecorder(rec)

	_, _ = b.Build(snap, "about", "home")
	_, _ = b.Build(snap, "blog", "nope")

	assert.Equal(t, map[string]int{"about/success": 1, "blog/not_found": 1}, rec.results)
}

func TestBuild_ConcurrentAndRepeatable(t *testing.T) {
	snap := load(t, testutil.NewSiteBuilder(t))
	b := NewBuilder()
	want, err := b.Build(snap, "about", "home")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := b.Build(snap, "about", "home")
			if err != nil {
				errs <- err
				return
			}
			if got[KeyContent] != want[KeyContent] {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
