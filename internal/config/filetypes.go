package config

import (
	"path/filepath"
	"strings"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/foundation/normalization"
)

// FileType classifies a file extension for static collection.
type FileType string

const (
	FileTypeBinary FileType = "binary"
	FileTypeConfig FileType = "config"
	FileTypeImage  FileType = "image"
	FileTypePDF    FileType = "pdf"
	FileTypeText   FileType = "text"
	FileTypeVideo  FileType = "video"
)

var fileTypeNormalizer = normalization.NewEnumNormalizer("file type", map[string]FileType{
	"binary": FileTypeBinary,
	"config": FileTypeConfig,
	"image":  FileTypeImage,
	"pdf":    FileTypePDF,
	"text":   FileTypeText,
	"video":  FileTypeVideo,
}, "")

// Publishable reports whether files of this type may be copied into the output tree.
func (f FileType) Publishable() bool {
	return f != "" && f != FileTypeConfig
}

// NormalizeExt canonicalizes an extension key: lower case, no leading dot.
func NormalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// NormalizeFileTypes re-keys the table by canonical extension and validates each class.
func NormalizeFileTypes(in map[string]FileType) (map[string]FileType, error) {
	out := make(map[string]FileType, len(in))
	for ext, raw := range in {
		ft, err := fileTypeNormalizer.NormalizeWithValidation(string(raw))
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid file type classification").
				WithContext("extension", ext).
				Build()
		}
		out[NormalizeExt(ext)] = ft
	}
	return out, nil
}

// Classify returns the file type of name according to the table; ok is false for
// unrecognized extensions.
func (c *Config) Classify(name string) (FileType, bool) {
	ft, ok := c.FileTypes[NormalizeExt(filepath.Ext(name))]
	return ft, ok
}
