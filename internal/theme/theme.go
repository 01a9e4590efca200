package theme

import (
	"encoding/hex"
	"errors"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// Theme is an accent/foreground color pair referenced by id from pages and sections.
type Theme struct {
	Color   string `yaml:"color" json:"color"`
	FgColor string `yaml:"fgcolor" json:"fgcolor"`
}

// Registry maps theme id to Theme.
type Registry map[string]Theme

// Has reports whether id names a loaded theme.
func (r Registry) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// IDs returns the theme ids in sorted order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var themeExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// LoadThemes reads every theme file directly under dir.
func LoadThemes(dir string) (Registry, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	reg := make(Registry, len(entries))
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || !themeExts[ext] {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())

		th, err := loadTheme(path)
		if err != nil {
			return nil, err
		}
		if _, dup := reg[id]; dup {
			return nil, ferrors.ConfigError("duplicate theme id").
				WithContext("theme", id).
				WithContext("path", path).
				Build()
		}
		reg[id] = th
	}
	return reg, nil
}

func loadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read theme").
			WithContext("path", path).
			Build()
	}
	// JSON documents are valid YAML, so one decoder serves every extension.
	var th Theme
	if err := yaml.Unmarshal(data, &th); err != nil {
		return Theme{}, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse theme").
			WithContext("path", path).
			Build()
	}
	if th.Color == "" || th.FgColor == "" {
		return Theme{}, ferrors.ConfigError("theme requires color and fgcolor").
			WithContext("path", path).
			Build()
	}
	return th, nil
}

// DecodeColor parses "#rrggbb" or "rrggbb" into an opaque RGBA color.
func DecodeColor(s string) (color.RGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return color.RGBA{}, ferrors.ConfigError("malformed hex color").
			WithContext("color", s).
			Build()
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.RGBA{}, ferrors.WrapError(err, ferrors.CategoryConfig, "malformed hex color").
			WithContext("color", s).
			Build()
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err == nil {
		return entries, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "directory not found").
			WithContext("path", dir).
			Build()
	}
	return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read directory").
		WithContext("path", dir).
		Build()
}
