// Package assets collects scripts, page assets and global static files into
// the output tree served under /static/.
package assets

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctcl/ctclsite/internal/config"
	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/logfields"
)

const (
	// JSDir is the output bucket for global scripts.
	JSDir = "js"
	// PagesDir is the output bucket mirroring the page-source tree.
	PagesDir = "pages"
)

// Classifier maps a file name onto its declared file type.
type Classifier interface {
	Classify(name string) (config.FileType, bool)
}

// Sources names the input directories; empty entries are skipped.
type Sources struct {
	JSDir     string
	PageDir   string
	StaticDir string
}

// Report counts collected and filtered files.
type Report struct {
	Copied  int
	Skipped int
}

// Collector copies the configured sources into an output root.
type Collector struct {
	src        Sources
	outputDir  string
	classifier Classifier
}

// NewCollector builds a collector for the directories named in cfg.
func NewCollector(cfg *config.Config) *Collector {
	return &Collector{
		src: Sources{
			JSDir:     cfg.JSDir,
			PageDir:   cfg.PageDir,
			StaticDir: cfg.StaticDir,
		},
		outputDir:  cfg.OutputDir,
		classifier: cfg,
	}
}

// Collect runs the three copy passes in order. The first failure aborts the
// run; files copied before it stay in place.
func (c *Collector) Collect() (Report, error) {
	var report Report
	if err := c.checkOverlap(); err != nil {
		return report, err
	}

	if c.src.JSDir != "" {
		if err := c.copyTree(c.src.JSDir, filepath.Join(c.outputDir, JSDir), &report); err != nil {
			return report, err
		}
	}
	if c.src.PageDir != "" {
		if err := c.collectPages(&report); err != nil {
			return report, err
		}
	}
	if c.src.StaticDir != "" && !samePath(c.src.StaticDir, c.outputDir) {
		if err := c.copyTree(c.src.StaticDir, c.outputDir, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// checkOverlap rejects layouts where a pass would write into its own source
// tree. A static dir equal to the output root is allowed; that pass is skipped.
func (c *Collector) checkOverlap() error {
	passes := []struct{ key, src, dst string }{
		{"jsdir", c.src.JSDir, filepath.Join(c.outputDir, JSDir)},
		{"pagedir", c.src.PageDir, filepath.Join(c.outputDir, PagesDir)},
		{"staticdir", c.src.StaticDir, c.outputDir},
	}
	for _, p := range passes {
		if p.src == "" || (p.key == "staticdir" && samePath(p.src, p.dst)) {
			continue
		}
		if within(p.src, p.dst) {
			return ferrors.ConfigError("output directory overlaps a source directory").
				WithContext(p.key, p.src).
				WithContext("path", c.outputDir).
				Build()
		}
	}
	return nil
}

// collectPages mirrors the page-source tree, publishing only classified,
// non-config files.
func (c *Collector) collectPages(report *Report) error {
	root := c.src.PageDir
	dst := filepath.Join(c.outputDir, PagesDir)
	return walk(root, func(path string, d fs.DirEntry) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return copyError(err, path)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return mkdir(target)
		}

		ft, ok := c.classifier.Classify(d.Name())
		if !ok || !ft.Publishable() {
			slog.Debug("Skipping unpublished page asset", logfields.Path(path))
			report.Skipped++
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		report.Copied++
		return nil
	})
}

// CopyTree copies the tree rooted at src below dst. dst must not be src or
// lie inside it.
func CopyTree(src, dst string) (Report, error) {
	var report Report
	if err := CheckDestination(src, dst); err != nil {
		return report, err
	}
	err := (&Collector{}).copyTree(src, dst, &report)
	return report, err
}

// CheckDestination reports a validation error when copying src to dst would
// write into src itself.
func CheckDestination(src, dst string) error {
	if within(src, dst) {
		return ferrors.ValidationError("destination overlaps source tree").
			WithContext("source", src).
			WithContext("path", dst).
			Build()
	}
	return nil
}

// copyTree copies every entry of src below dst, preserving relative structure.
func (c *Collector) copyTree(src, dst string, report *Report) error {
	return walk(src, func(path string, d fs.DirEntry) error {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return copyError(err, path)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return mkdir(target)
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		report.Copied++
		return nil
	})
}

func walk(root string, fn func(path string, d fs.DirEntry) error) error {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ferrors.WrapError(err, ferrors.CategoryNotFound, "asset source directory not found").
				WithContext("path", root).
				Build()
		}
		return copyError(err, root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return copyError(err, path)
		}
		return fn(path, d)
	})
}

func mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return copyError(err, dir)
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return copyError(err, src)
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return copyError(err, src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return copyError(err, dst)
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return copyError(err, dst)
	}
	return nil
}

func copyError(err error, path string) error {
	var ce *ferrors.ClassifiedError
	if errors.As(err, &ce) {
		return err
	}
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "asset collection failed").
		WithContext("path", path).
		Build()
}

// within reports whether child is parent or lies below it.
func within(parent, child string) bool {
	absParent, errP := filepath.Abs(parent)
	absChild, errC := filepath.Abs(child)
	if errP != nil || errC != nil {
		return false
	}
	rel, err := filepath.Rel(absParent, absChild)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
