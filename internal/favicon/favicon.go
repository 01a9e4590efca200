// Package favicon derives one solid-color icon per theme.
package favicon

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	ico "github.com/sergeymakinen/go-ico"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/logfields"
	"github.com/ctcl/ctclsite/internal/theme"
)

// Size is the edge length of generated icons in pixels.
const Size = 16

// Dir is the favicon directory below the output root.
const Dir = "favicons"

// URL returns the site-relative location of the default favicon for themeID.
func URL(themeID string) string {
	return path.Join("static", Dir, fileName(themeID))
}

// Path returns where the default favicon for themeID lives below outputDir.
func Path(outputDir, themeID string) string {
	return filepath.Join(outputDir, Dir, fileName(themeID))
}

func fileName(themeID string) string {
	return "default_" + themeID + ".ico"
}

// Report lists the themes whose icon was written or already present.
type Report struct {
	Written []string
	Skipped []string
}

// Generator writes default favicons into an output root.
type Generator struct {
	outputDir string
}

// NewGenerator returns a generator writing below outputDir.
func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// Generate ensures an icon exists for every theme. Existing icons are left
// untouched. A malformed theme color aborts generation.
func (g *Generator) Generate(themes theme.Registry) (Report, error) {
	var report Report

	dir := filepath.Join(g.outputDir, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create favicon directory").
			WithContext("path", dir).
			Build()
	}

	for _, id := range themes.IDs() {
		target := Path(g.outputDir, id)
		if _, err := os.Stat(target); err == nil {
			slog.Debug("Favicon exists, skipping", logfields.Theme(id), logfields.Path(target))
			report.Skipped = append(report.Skipped, id)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return report, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat favicon").
				WithContext("path", target).
				Build()
		}

		data, err := Render(themes[id].Color)
		if err != nil {
			if ce, ok := ferrors.AsClassified(err); ok {
				return report, ce.WithContext("theme", id)
			}
			return report, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return report, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write favicon").
				WithContext("theme", id).
				WithContext("path", target).
				Build()
		}
		report.Written = append(report.Written, id)
	}
	return report, nil
}

// Render encodes a Size x Size icon filled with the hex color.
func Render(hexColor string) ([]byte, error) {
	c, err := theme.DecodeColor(hexColor)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode favicon").Build()
	}
	return buf.Bytes(), nil
}
