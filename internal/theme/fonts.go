package theme

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

const familyFile = "family.yaml"

// FontFamily is one web font family. Files are relative to the family directory.
type FontFamily struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Fallback string   `json:"fallback,omitempty"`
	Files    []string `json:"files"`
}

// Fonts maps font id to family.
type Fonts map[string]FontFamily

var fontExts = map[string]bool{".woff2": true, ".woff": true, ".ttf": true, ".otf": true}

type familyMeta struct {
	Name     string `yaml:"name"`
	Fallback string `yaml:"fallback"`
}

// LoadFonts reads every font family subdirectory of dir. An empty dir yields an
// empty registry; fonts are optional for a site.
func LoadFonts(dir string) (Fonts, error) {
	if dir == "" {
		return Fonts{}, nil
	}
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	fonts := make(Fonts)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fam, err := loadFamily(filepath.Join(dir, entry.Name()), entry.Name())
		if err != nil {
			return nil, err
		}
		fonts[fam.ID] = fam
	}
	return fonts, nil
}

func loadFamily(dir, id string) (FontFamily, error) {
	entries, err := readDir(dir)
	if err != nil {
		return FontFamily{}, err
	}

	fam := FontFamily{ID: id, Name: DisplayName(id)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if fontExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			fam.Files = append(fam.Files, entry.Name())
		}
	}
	sort.Strings(fam.Files)

	metaPath := filepath.Join(dir, familyFile)
	data, err := os.ReadFile(metaPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fam, nil
	case err != nil:
		return FontFamily{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read font metadata").
			WithContext("path", metaPath).
			Build()
	}

	var meta familyMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return FontFamily{}, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse font metadata").
			WithContext("path", metaPath).
			Build()
	}
	if meta.Name != "" {
		fam.Name = meta.Name
	}
	fam.Fallback = meta.Fallback
	return fam, nil
}

// DisplayName turns a directory id such as "fira-code" into "Fira Code".
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(id))
}
