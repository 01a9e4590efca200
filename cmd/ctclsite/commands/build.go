package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ctcl/ctclsite/internal/assets"
	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/logfields"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/server"
	"github.com/ctcl/ctclsite/internal/site"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the rendered site" default:"./site"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	start := time.Now()
	snap, tpl, err := loadSite(g, root, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	staticOut := filepath.Join(b.Output, "static")
	if err := assets.CheckDestination(snap.OutputDir(), staticOut); err != nil {
		return err
	}

	srv := server.New(site.NewHolder(snap), tpl, server.Options{Logger: g.Logger})
	for _, route := range snap.Routes() {
		var buf bytes.Buffer
		if err := srv.RenderRoute(&buf, snap, route); err != nil {
			return err
		}
		target := routeFile(b.Output, route.Path)
		if err := writeFile(target, buf.Bytes()); err != nil {
			return err
		}
		g.Logger.Debug("Rendered page", logfields.Page(route.ID), logfields.Path(target))
	}

	report, err := assets.CopyTree(snap.OutputDir(), staticOut)
	if err != nil {
		return err
	}
	if err := writeRedirects(b.Output, snap.Redirects()); err != nil {
		return err
	}

	g.Logger.Info("Site built",
		logfields.Path(b.Output),
		logfields.Count(len(snap.Routes())),
		slog.Int("static_files", report.Copied),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

// routeFile maps a route path to <out>/<path>/index.html.
func routeFile(out, routePath string) string {
	rel := strings.Trim(site.NormalizeRoute(routePath), "/")
	return filepath.Join(out, filepath.FromSlash(rel), "index.html")
}

// writeRedirects emits the redirect table as a _redirects file (one
// "from to code" line per entry, sorted by source path).
func writeRedirects(out string, redirects map[string]string) error {
	if len(redirects) == 0 {
		return nil
	}
	from := make([]string, 0, len(redirects))
	for k := range redirects {
		from = append(from, k)
	}
	sort.Strings(from)

	var buf bytes.Buffer
	for _, k := range from {
		target := redirects[k]
		code := 302
		if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
			code = 301
		}
		fmt.Fprintf(&buf, "%s %s %d\n", k, target, code)
	}
	return writeFile(filepath.Join(out, "_redirects"), buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	// #nosec G306 -- rendered pages are public site content
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write file").
			WithContext("path", path).
			Build()
	}
	return nil
}
