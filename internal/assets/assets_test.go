package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctcl/ctclsite/internal/config"
	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func fixture(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "js", "site.js"), "console.log(1)")
	writeFile(t, filepath.Join(root, "pages", "blog", "post.md"), "# post")
	writeFile(t, filepath.Join(root, "pages", "blog", "cover.PNG"), "png")
	writeFile(t, filepath.Join(root, "pages", "blog", "meta.json"), "{}")
	writeFile(t, filepath.Join(root, "pages", "blog", "notes.xyz"), "?")
	writeFile(t, filepath.Join(root, "pages", "about", "cv.pdf"), "pdf")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages", "empty"), 0o750))
	writeFile(t, filepath.Join(root, "public", "robots.txt"), "User-agent: *")
	writeFile(t, filepath.Join(root, "public", "img", "logo.svg"), "<svg/>")

	cfg, err := config.Parse([]byte(`{"filetypes":{"md":"text","png":"image","json":"config","pdf":"pdf"}}`))
	require.NoError(t, err)
	cfg.JSDir = filepath.Join(root, "js")
	cfg.PageDir = filepath.Join(root, "pages")
	cfg.StaticDir = filepath.Join(root, "public")
	cfg.OutputDir = filepath.Join(root, "out")
	return cfg
}

func TestCollect(t *testing.T) {
	cfg := fixture(t)
	out := cfg.OutputDir

	report, err := NewCollector(cfg).Collect()
	require.NoError(t, err)

	for _, rel := range []string{
		"js/site.js",
		"pages/blog/post.md",
		"pages/blog/cover.PNG",
		"pages/about/cv.pdf",
		"robots.txt",
		"img/logo.svg",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
	assert.DirExists(t, filepath.Join(out, "pages", "empty"), "directories are mirrored")

	assert.NoFileExists(t, filepath.Join(out, "pages", "blog", "meta.json"), "config files are never published")
	assert.NoFileExists(t, filepath.Join(out, "pages", "blog", "notes.xyz"), "unknown extensions are skipped")

	assert.Equal(t, 6, report.Copied)
	assert.Equal(t, 2, report.Skipped)

	data, err := os.ReadFile(filepath.Join(out, "js", "site.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(data))
}

func TestCollect_RerunOverwrites(t *testing.T) {
	cfg := fixture(t)
	c := NewCollector(cfg)

	_, err := c.Collect()
	require.NoError(t, err)
	writeFile(t, filepath.Join(cfg.JSDir, "site.js"), "v2")
	_, err = c.Collect()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "js", "site.js"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestCollect_MissingSourceAbortsWithoutRollback(t *testing.T) {
	cfg := fixture(t)
	cfg.StaticDir = filepath.Join(t.TempDir(), "missing")

	_, err := NewCollector(cfg).Collect()
	require.Error(t, err)
	assert.True(t, ferrors.IsNotFound(err))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	path, _ := ce.Context().GetString("path")
	assert.Equal(t, cfg.StaticDir, path)

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "js", "site.js"), "earlier passes are kept")
}

func TestCollect_UnsetSourcesSkipped(t *testing.T) {
	cfg := fixture(t)
	cfg.JSDir = ""
	cfg.StaticDir = ""

	report, err := NewCollector(cfg).Collect()
	require.NoError(t, err)
	assert.Equal(t, 3, report.Copied)
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, JSDir))
}

func TestCollect_StaticDirSameAsOutput(t *testing.T) {
	cfg := fixture(t)
	cfg.StaticDir = cfg.OutputDir
	_, err := NewCollector(cfg).Collect()
	require.NoError(t, err)
}

func TestCollect_RejectsOutputInsideSource(t *testing.T) {
	tests := []struct {
		name string
		key  string
		edit func(cfg *config.Config)
	}{
		{"static dir contains output", "staticdir", func(cfg *config.Config) { cfg.StaticDir = filepath.Dir(cfg.OutputDir) }},
		{"page dir contains output", "pagedir", func(cfg *config.Config) { cfg.OutputDir = filepath.Join(cfg.PageDir, "out") }},
		{"js dir is output bucket", "jsdir", func(cfg *config.Config) { cfg.JSDir = filepath.Join(cfg.OutputDir, JSDir) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fixture(t)
			tt.edit(cfg)

			_, err := NewCollector(cfg).Collect()
			require.Error(t, err)
			assert.True(t, ferrors.IsConfig(err))
			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			_, named := ce.Context().GetString(tt.key)
			assert.True(t, named)
			assert.NoDirExists(t, filepath.Join(cfg.OutputDir, PagesDir), "nothing is copied")
		})
	}
}

func TestCopyTree_RejectsOverlap(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "favicons", "default_dark.ico"), "icon")

	for _, dst := range []string{src, filepath.Join(src, "nested")} {
		_, err := CopyTree(src, dst)
		require.Error(t, err)
		assert.True(t, ferrors.IsValidation(err))
	}

	data, err := os.ReadFile(filepath.Join(src, "favicons", "default_dark.ico"))
	require.NoError(t, err)
	assert.Equal(t, "icon", string(data))

	dst := filepath.Join(t.TempDir(), "copy")
	report, err := CopyTree(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Copied)
	assert.FileExists(t, filepath.Join(dst, "favicons", "default_dark.ico"))
}
