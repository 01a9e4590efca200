package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" help:"Directory to create the site in" default:"."`
	Force bool   `help:"Overwrite existing files"`

	out io.Writer
}

// starterConfig lives in config/, so every path reaches one level up.
const starterConfig = `{
  "bindip": "127.0.0.1",
  "bindport": 8000,
  "siteurl": "http://localhost:8000",
  "pagedir": "../pages",
  "themedir": "../themes",
  "templatedir": "../templates",
  "outputdir": "../static",
  "defaulttheme": "default",
  "redirects": {},
  "navbar": [
    {"title": "Home", "link": "/"}
  ],
  "logging": {"level": "info", "format": "text"},
  "filetypes": {
    "md": "text",
    "txt": "text",
    "png": "image",
    "jpg": "image",
    "svg": "image",
    "pdf": "pdf",
    "mp4": "video",
    "json": "config"
  },
  "pagecfgpaths": {
    "about": "about.json",
    "blog": "blog.json",
    "linklist": "linklist.json",
    "projects": "projects.json",
    "services": "services.json"
  }
}
`

const starterTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.title}}</title>
  {{with .desc}}<meta name="description" content="{{.}}">{{end}}
  <link rel="icon" href="/{{.favicon}}">
</head>
<body style="background: {{.themecolor}}; color: {{.fgcolor}}">
  {{if .shownavbar}}<nav>{{range .navbar}}<a href="{{.Link}}">{{.Title}}</a> {{end}}</nav>{{end}}
  <main>
    {{.content}}
    {{range .sections}}<section id="{{.Name}}">{{with .Title}}<h2>{{.}}</h2>{{end}}{{.Content}}</section>{{end}}
  </main>
  <footer>&copy; {{year}}</footer>
</body>
</html>
`

var starterFiles = map[string]string{
	"config/config.json":   starterConfig,
	"config/about.json":    `{"home": {"type": "content", "link": "/", "theme": "default", "title": "Home", "content": "home.md"}}` + "\n",
	"config/blog.json":     "{}\n",
	"config/linklist.json": "{}\n",
	"config/projects.json": "{}\n",
	"config/services.json": "{}\n",
	"themes/default.json":  `{"color": "#1d1f21", "fgcolor": "#c5c8c6"}` + "\n",
	"pages/home.md":        "# Hello\n\nThis site was created by `ctclsite init`.\n",
	"templates/page.html":  starterTemplate,
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	out := i.out
	if out == nil {
		out = os.Stdout
	}
	return RunInit(out, i.Dir, i.Force)
}

// RunInit writes the starter site below dir. Existing files are left alone
// and reported unless force is set.
func RunInit(out io.Writer, dir string, force bool) error {
	names := make([]string, 0, len(starterFiles))
	for name := range starterFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	if !force {
		for _, name := range names {
			path := filepath.Join(dir, filepath.FromSlash(name))
			if _, err := os.Stat(path); err == nil {
				return ferrors.ValidationError("site already initialized; use --force to overwrite").
					WithContext("path", path).
					Build()
			} else if !errors.Is(err, fs.ErrNotExist) {
				return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat file").
					WithContext("path", path).
					Build()
			}
		}
	}

	_, _ = fmt.Fprintf(out, "Initializing site in %s\n", dir)
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := writeFile(path, []byte(starterFiles[name])); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "  wrote %s\n", name)
	}
	_, _ = fmt.Fprintf(out, "Run: ctclsite -c %s serve\n", filepath.Join(dir, "config", "config.json"))
	return nil
}
