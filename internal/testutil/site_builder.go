package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

var categories = []string{"about", "blog", "linklist", "projects", "services"}

// SiteBuilder provides a fluent interface for writing a complete site into a
// temporary directory: config.json, themes, category page files and sources.
type SiteBuilder struct {
	t      *testing.T
	root   string
	config map[string]any
	themes map[string]map[string]string
	pages  map[string]map[string]json.RawMessage
	files  map[string]string
}

// NewSiteBuilder returns a builder preloaded with a minimal valid site: one
// "dark" theme (#202020) and a content page about/home served at "/".
func NewSiteBuilder(t *testing.T) *SiteBuilder {
	t.Helper()
	sb := &SiteBuilder{
		t:    t,
		root: t.TempDir(),
		config: map[string]any{
			"siteurl":     "https://example.org",
			"pagedir":     "pages",
			"themedir":    "themes",
			"templatedir": "templates",
			"outputdir":   "static",
			"navbar":      []map[string]string{{"title": "Home", "link": "/"}},
			"filetypes":   map[string]string{"md": "text", "png": "image", "json": "config"},
		},
		themes: map[string]map[string]string{},
		pages:  map[string]map[string]json.RawMessage{},
		files:  map[string]string{},
	}
	paths := map[string]string{}
	for _, cat := range categories {
		paths[cat] = filepath.Join("config", cat+".json")
		sb.pages[cat] = map[string]json.RawMessage{}
	}
	sb.config["pagecfgpaths"] = paths

	return sb.
		WithTheme("dark", "#202020", "#f0f0f0").
		WithPage("about", "home", `{"type":"content","link":"/","theme":"dark","title":"Home","content":"home.md"}`).
		WithFile("pages/home.md", "# Welcome\n\nHello from the home page.\n")
}

// Root returns the fixture directory.
func (sb *SiteBuilder) Root() string { return sb.root }

// Path joins rel onto the fixture directory.
func (sb *SiteBuilder) Path(rel string) string {
	return filepath.Join(sb.root, filepath.FromSlash(rel))
}

// WithConfig sets a top-level config.json key.
func (sb *SiteBuilder) WithConfig(key string, value any) *SiteBuilder {
	sb.config[key] = value
	return sb
}

// WithoutConfig removes a top-level config.json key.
func (sb *SiteBuilder) WithoutConfig(key string) *SiteBuilder {
	delete(sb.config, key)
	return sb
}

// WithTheme adds a theme file themes/<id>.json.
func (sb *SiteBuilder) WithTheme(id, color, fgcolor string) *SiteBuilder {
	sb.themes[id] = map[string]string{"color": color, "fgcolor": fgcolor}
	return sb
}

// WithoutTheme drops a theme.
func (sb *SiteBuilder) WithoutTheme(id string) *SiteBuilder {
	delete(sb.themes, id)
	return sb
}

// WithPage adds a raw JSON page record to a category file.
func (sb *SiteBuilder) WithPage(category, id, record string) *SiteBuilder {
	sb.pages[category][id] = json.RawMessage(record)
	return sb
}

// WithoutPage drops a page record.
func (sb *SiteBuilder) WithoutPage(category, id string) *SiteBuilder {
	delete(sb.pages[category], id)
	return sb
}

// WithFile adds an arbitrary file relative to the fixture root.
func (sb *SiteBuilder) WithFile(rel, body string) *SiteBuilder {
	sb.files[rel] = body
	return sb
}

// Build writes the fixture and returns the path of config.json, which sits at
// the fixture root so every configured path resolves below it.
func (sb *SiteBuilder) Build() string {
	sb.t.Helper()

	for id, th := range sb.themes {
		sb.writeJSON(filepath.Join("themes", id+".json"), th)
	}
	if len(sb.themes) == 0 {
		sb.mkdir("themes")
	}
	for cat, pages := range sb.pages {
		sb.writeJSON(filepath.Join("config", cat+".json"), pages)
	}
	for rel, body := range sb.files {
		sb.write(rel, []byte(body))
	}
	sb.mkdir("pages")

	sb.writeJSON("config.json", sb.config)
	return sb.Path("config.json")
}

func (sb *SiteBuilder) writeJSON(rel string, v any) {
	sb.t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		sb.t.Fatalf("marshal %s: %v", rel, err)
	}
	sb.write(rel, data)
}

func (sb *SiteBuilder) write(rel string, data []byte) {
	sb.t.Helper()
	path := sb.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		sb.t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, testFilePermissions); err != nil {
		sb.t.Fatalf("write %s: %v", path, err)
	}
}

func (sb *SiteBuilder) mkdir(rel string) {
	sb.t.Helper()
	if err := os.MkdirAll(sb.Path(rel), testDirPermissions); err != nil {
		sb.t.Fatalf("mkdir %s: %v", rel, err)
	}
}
