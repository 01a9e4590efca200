package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// DefaultPath is where the CLI looks for the site configuration.
const DefaultPath = "config/config.json"

// Config is the top-level site configuration (config.json).
//
// The theme, font and page registries are not part of this shape; the site
// loader derives them from the discovery directories below.
type Config struct {
	BindIP   string `json:"bindip"`
	BindPort int    `json:"bindport"`
	SiteURL  string `json:"siteurl"`

	FontDir     string `json:"fontdir,omitempty"`
	JSDir       string `json:"jsdir,omitempty"`
	PageDir     string `json:"pagedir"`
	StaticDir   string `json:"staticdir,omitempty"`
	ThemeDir    string `json:"themedir"`
	TemplateDir string `json:"templatedir,omitempty"`
	// OutputDir receives favicons and collected static assets; served under /static/.
	OutputDir string `json:"outputdir,omitempty"`

	DefaultTheme string              `json:"defaulttheme,omitempty"`
	Redirects    map[string]string   `json:"redirects,omitempty"`
	Navbar       []NavLink           `json:"navbar,omitempty"`
	Logging      LoggingConfig       `json:"logging"`
	FileTypes    map[string]FileType `json:"filetypes,omitempty"`
	PageCfgPaths PageCfgPaths        `json:"pagecfgpaths"`

	ThemeVars map[string]any `json:"themevars,omitempty"`
	UserVars  map[string]any `json:"uservars,omitempty"`

	// path is the file the config was read from; relative paths resolve against its directory.
	path string
}

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// PageCfgPaths names the per-category page files.
type PageCfgPaths struct {
	About    string `json:"about"`
	Blog     string `json:"blog"`
	Linklist string `json:"linklist"`
	Projects string `json:"projects"`
	Services string `json:"services"`
}

// ByCategory returns the category name -> page file mapping.
func (p PageCfgPaths) ByCategory() map[string]string {
	return map[string]string{
		"about":    p.About,
		"blog":     p.Blog,
		"linklist": p.Linklist,
		"projects": p.Projects,
		"services": p.Services,
	}
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string { return c.path }

// Load reads, expands, defaults, resolves and validates the site configuration at configPath.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", configPath)
		}
		return nil, err
	}
	cfg.path = configPath
	cfg.resolvePaths(filepath.Dir(configPath))
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration JSON (after ${VAR} expansion) and applies defaults.
// Paths are left as written; Load resolves them against the config directory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(expandEnv(data), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config JSON").Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the value of VAR, escaped for use
// inside a JSON string. Any other '$' is left as written.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		val := os.Getenv(string(envRef.FindSubmatch(ref)[1]))
		quoted, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return quoted[1 : len(quoted)-1]
	})
}

// resolvePaths rewrites every relative discovery path against base.
func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{
		&c.FontDir, &c.JSDir, &c.PageDir, &c.StaticDir, &c.ThemeDir, &c.TemplateDir, &c.OutputDir,
		&c.PageCfgPaths.About, &c.PageCfgPaths.Blog, &c.PageCfgPaths.Linklist,
		&c.PageCfgPaths.Projects, &c.PageCfgPaths.Services,
	} {
		*p = resolve(base, *p)
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
