// Package markdown renders page body sources to HTML.
package markdown

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// Renderer converts markdown files under a root directory to HTML.
//
// Raw HTML passes through and GFM tables are enabled for every call. Heading
// anchors (id attributes) are toggled per call. Nothing is cached: every call
// re-reads the source. A Renderer is safe for concurrent use.
type Renderer struct {
	root     string
	plain    goldmark.Markdown
	anchored goldmark.Markdown
}

// NewRenderer returns a Renderer resolving relative paths against root.
// An empty root resolves against the working directory.
func NewRenderer(root string) *Renderer {
	return &Renderer{
		root:     root,
		plain:    newMarkdown(false),
		anchored: newMarkdown(true),
	}
}

func newMarkdown(headingIDs bool) goldmark.Markdown {
	var parserOpts []parser.Option
	if headingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	return goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Resolve returns the filesystem path a content reference points at.
func (r *Renderer) Resolve(path string) string {
	if filepath.IsAbs(path) || r.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(r.root, path)
}

// Render reads the markdown file at path and returns its HTML rendering.
// A missing file is a not_found error; any other read fault is a filesystem error.
func (r *Renderer) Render(path string, headingAnchors bool) (string, error) {
	full := r.Resolve(path)
	src, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ferrors.WrapError(err, ferrors.CategoryNotFound, "markdown source not found").
				WithContext("path", path).
				Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read markdown source").
			WithContext("path", path).
			Build()
	}

	md := r.plain
	if headingAnchors {
		md = r.anchored
	}

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "markdown conversion failed").
			WithContext("path", path).
			Build()
	}
	return buf.String(), nil
}
