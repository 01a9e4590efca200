package page

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

func decode(t *testing.T, raw string) (*Page, error) {
	t.Helper()
	var p Page
	err := json.Unmarshal([]byte(raw), &p)
	return &p, err
}

func TestDecode_Sections(t *testing.T) {
	p, err := decode(t, `{
		"type": "sections", "link": "/", "theme": "dark", "title": "Home",
		"sections": {
			"zeta":  {"theme": "dark", "title": "Z", "content": "z.md"},
			"alpha": {"theme": "light", "title": "A", "content": "a.md", "fitscreen": false, "bgimg": "a.jpg"},
			"mid":   {"theme": "dark", "title": "M", "content": "m.md", "bgvid": "m.webm"}
		},
		"menu": ["blog", "about"]
	}`)
	require.NoError(t, err)

	assert.Equal(t, TypeSections, p.Type())
	assert.True(t, p.ShowNavbar, "shownavbar defaults to true")
	assert.Equal(t, []string{"blog", "about"}, p.Menu)

	body, ok := p.Body.(*Sections)
	require.True(t, ok)

	var keys []string
	for pair := body.Sections.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys, "declaration order is kept")

	zeta, _ := body.Sections.Get("zeta")
	assert.True(t, zeta.FitScreen, "fitscreen defaults to true")
	alpha, _ := body.Sections.Get("alpha")
	assert.False(t, alpha.FitScreen)
	assert.Equal(t, "a.jpg", alpha.BgImg)

	assert.Equal(t, []string{"dark", "dark", "light", "dark"}, p.Themes())
}

func TestDecode_Content(t *testing.T) {
	p, err := decode(t, `{"type":"content","link":"/about","theme":"dark","title":"About",
		"desc":"who","keywords":"me","favicon":"custom.ico","shownavbar":false,"content":"about.md"}`)
	require.NoError(t, err)

	assert.Equal(t, TypeContent, p.Type())
	assert.False(t, p.ShowNavbar)
	assert.Equal(t, "custom.ico", p.Favicon)
	assert.Equal(t, &Content{Path: "about.md"}, p.Body)
}

func TestDecode_Linklist(t *testing.T) {
	p, err := decode(t, `{"type":"linklist","link":"/links","theme":"dark","title":"Links",
		"cats":{"social":{"title":"Social","theme":"dark"},"code":{"title":"Code","theme":"light"}}}`)
	require.NoError(t, err)

	body, ok := p.Body.(*Linklist)
	require.True(t, ok)
	assert.Equal(t, 2, body.Cats.Len())
	assert.Equal(t, "social", body.Cats.Oldest().Key)
	assert.Equal(t, []string{"dark", "dark", "light"}, p.Themes())
}

func TestDecode_Link(t *testing.T) {
	p, err := decode(t, `{"type":"link","link":"https://github.com/ctcl","title":"GitHub","cat":"code","icon":"gh.svg"}`)
	require.NoError(t, err)
	assert.Equal(t, TypeLink, p.Type())
	assert.Equal(t, &Link{}, p.Body)
	assert.Equal(t, "code", p.Cat)
	assert.Empty(t, p.Themes())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown type", `{"type":"gallery","link":"/g","theme":"dark","title":"G"}`},
		{"missing type", `{"link":"/g","theme":"dark","title":"G"}`},
		{"unknown field", `{"type":"content","link":"/a","theme":"dark","title":"A","content":"a.md","colour":"red"}`},
		{"unknown section field", `{"type":"sections","link":"/","theme":"dark","title":"H","sections":{"s":{"theme":"dark","title":"S","content":"s.md","colour":"red"}}}`},
		{"unknown category field", `{"type":"linklist","link":"/l","theme":"dark","title":"L","cats":{"c":{"title":"C","theme":"dark","colour":"red"}}}`},
		{"sections without sections", `{"type":"sections","link":"/","theme":"dark","title":"H"}`},
		{"sections with content", `{"type":"sections","link":"/","theme":"dark","title":"H","sections":{},"content":"x.md"}`},
		{"content without content", `{"type":"content","link":"/a","theme":"dark","title":"A"}`},
		{"content with cats", `{"type":"content","link":"/a","theme":"dark","title":"A","content":"a.md","cats":{}}`},
		{"linklist without cats", `{"type":"linklist","link":"/l","theme":"dark","title":"L"}`},
		{"link with content", `{"type":"link","link":"/x","title":"X","content":"x.md"}`},
		{"link with menu", `{"type":"link","link":"/x","title":"X","menu":["a"]}`},
		{"renderable page without theme", `{"type":"content","link":"/a","title":"A","content":"a.md"}`},
		{"not an object", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.raw)
			require.Error(t, err)
			assert.True(t, ferrors.IsConfig(err), "expected config error, got %v", err)
		})
	}
}

func TestMarshal_FlatRecord(t *testing.T) {
	p, err := decode(t, `{"type":"content","link":"/about","theme":"dark","title":"About","content":"about.md"}`)
	require.NoError(t, err)

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, "content", fields["type"])
	assert.Equal(t, "about.md", fields["content"])
	assert.Equal(t, true, fields["shownavbar"])
	assert.NotContains(t, fields, "sections")
	assert.NotContains(t, fields, "cats")
}

func TestDecode_MenuNilAndEmptyStayDistinct(t *testing.T) {
	absent, err := decode(t, `{"type":"content","link":"/a","theme":"dark","title":"A","content":"a.md"}`)
	require.NoError(t, err)
	assert.Nil(t, absent.Menu)

	empty, err := decode(t, `{"type":"content","link":"/a","theme":"dark","title":"A","content":"a.md","menu":[]}`)
	require.NoError(t, err)
	require.NotNil(t, empty.Menu)
	assert.Empty(t, empty.Menu)

	out, err := json.Marshal(empty)
	require.NoError(t, err)
	var back Page
	require.NoError(t, json.Unmarshal(out, &back))
	assert.NotNil(t, back.Menu)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseCategory("gallery")
	assert.False(t, ok)
}
