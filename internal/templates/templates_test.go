package templates

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return dir
}

func TestLookup_Fallbacks(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"blog_content.html": "bc",
		"about.html":        "a",
		"sections.html":     "s",
		"page.html":         "p",
		"README.txt":        "ignored",
	})
	set, err := Load(dir)
	require.NoError(t, err)

	tests := []struct {
		category, ptype, want string
	}{
		{"blog", "content", "blog_content.html"},
		{"about", "content", "about.html"},
		{"projects", "sections", "sections.html"},
		{"services", "content", "page.html"},
	}
	for _, tt := range tests {
		got, err := set.Lookup(tt.category, tt.ptype)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s", tt.category, tt.ptype)
	}
	assert.Equal(t, []string{"about.html", "blog_content.html", "page.html", "sections.html"}, set.Names())
}

func TestLookup_NoTemplate(t *testing.T) {
	set, err := Load(writeTemplates(t, map[string]string{"about.html": "a"}))
	require.NoError(t, err)
	_, err = set.Lookup("blog", "content")
	require.Error(t, err)
	assert.True(t, ferrors.IsNotFound(err))
}

func TestRender_WithPartialsAndEscaping(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"partials/head.html": `{{define "head"}}<title>{{.title}}</title>{{end}}`,
		"page.html":          `{{template "head" .}}<main>{{.content}}</main><p>{{.desc}}</p>`,
	})
	set, err := Load(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = set.Render(&buf, "page.html", map[string]any{
		"title":   "Home",
		"content": template.HTML("<h1 id=\"x\">X</h1>"),
		"desc":    "<b>raw</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, `<title>Home</title><main><h1 id="x">X</h1></main><p>&lt;b&gt;raw&lt;/b&gt;</p>`, buf.String())
}

func TestRender_Errors(t *testing.T) {
	set, err := Load(writeTemplates(t, map[string]string{"page.html": `{{.missing.field}}`}))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = set.Render(&buf, "nope.html", nil)
	assert.True(t, ferrors.IsNotFound(err))

	err = set.Render(&buf, "page.html", map[string]any{"missing": 3})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
	assert.Zero(t, buf.Len(), "failed renders write nothing")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, ferrors.IsNotFound(err))

	_, err = Load(writeTemplates(t, map[string]string{"page.html": "{{if}}"}))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
}
