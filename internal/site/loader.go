package site

import (
	"log/slog"
	"os"
	"time"

	"github.com/ctcl/ctclsite/internal/assets"
	"github.com/ctcl/ctclsite/internal/config"
	"github.com/ctcl/ctclsite/internal/favicon"
	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/logfields"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/page"
	"github.com/ctcl/ctclsite/internal/theme"
)

// Stage names, in execution order.
const (
	StageConfig   = "config"
	StageOutput   = "output"
	StageFonts    = "fonts"
	StageThemes   = "themes"
	StageFavicons = "favicons"
	StageAssets   = "assets"
	StagePages    = "pages"
	StageRoutes   = "routes"
)

// Loader builds a Snapshot from a configuration file.
type Loader struct {
	configPath string
	recorder   metrics.Recorder
}

// NewLoader returns a loader for the config file at configPath.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder observing each stage.
func (l *Loader) WithRecorder(r metrics.Recorder) *Loader {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	l.recorder = r
	return l
}

// assembly is the mutable value the stages fill in before it is frozen.
type assembly struct {
	cfg    *config.Config
	fonts  theme.Fonts
	themes theme.Registry
	pages  page.Registries
	routes map[string]Route
}

// Load runs every stage in order; the first failure aborts the load.
func (l *Loader) Load() (*Snapshot, error) {
	start := time.Now()
	a := &assembly{}

	stages := []struct {
		name string
		run  func(*assembly) error
	}{
		{StageConfig, l.loadConfig},
		{StageOutput, ensureOutput},
		{StageFonts, loadFonts},
		{StageThemes, loadThemes},
		{StageFavicons, generateFavicons},
		{StageAssets, collectAssets},
		{StagePages, loadPages},
		{StageRoutes, indexRoutes},
	}
	for _, st := range stages {
		if err := l.runStage(st.name, a, st.run); err != nil {
			return nil, err
		}
	}

	if err := a.check(); err != nil {
		return nil, err
	}

	snap := a.freeze()
	l.recorder.ObserveLoadDuration(time.Since(start))
	l.recorder.SetSnapshotPages(snap.pages.Len())
	slog.Info("Site loaded",
		logfields.Count(snap.pages.Len()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return snap, nil
}

func (l *Loader) runStage(name string, a *assembly, run func(*assembly) error) error {
	start := time.Now()
	err := run(a)
	d := time.Since(start)
	l.recorder.ObserveStageDuration(name, d)

	if err != nil {
		l.recorder.IncStageResult(name, resultFor(err))
		slog.Error("Load stage failed", logfields.Stage(name), logfields.Error(err))
		return err
	}
	l.recorder.IncStageResult(name, metrics.ResultSuccess)
	slog.Info("Load stage complete", logfields.Stage(name), logfields.DurationMS(float64(d.Microseconds())/1000))
	return nil
}

func resultFor(err error) metrics.ResultLabel {
	switch ferrors.GetCategory(err) {
	case ferrors.CategoryNotFound:
		return metrics.ResultNotFound
	case ferrors.CategoryValidation, ferrors.CategoryConfig:
		return metrics.ResultInvalid
	default:
		return metrics.ResultFailed
	}
}

func (l *Loader) loadConfig(a *assembly) error {
	cfg, err := config.Load(l.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func ensureOutput(a *assembly) error {
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", a.cfg.OutputDir).
			Build()
	}
	return nil
}

func loadFonts(a *assembly) error {
	fonts, err := theme.LoadFonts(a.cfg.FontDir)
	if err != nil {
		return err
	}
	a.fonts = fonts
	return nil
}

func loadThemes(a *assembly) error {
	themes, err := theme.LoadThemes(a.cfg.ThemeDir)
	if err != nil {
		return err
	}
	a.themes = themes
	return nil
}

func generateFavicons(a *assembly) error {
	report, err := favicon.NewGenerator(a.cfg.OutputDir).Generate(a.themes)
	if err != nil {
		return err
	}
	slog.Debug("Favicons generated", slog.Int("written", len(report.Written)), slog.Int("skipped", len(report.Skipped)))
	return nil
}

func collectAssets(a *assembly) error {
	report, err := assets.NewCollector(a.cfg).Collect()
	if err != nil {
		return err
	}
	slog.Debug("Static assets collected", slog.Int("copied", report.Copied), slog.Int("skipped", report.Skipped))
	return nil
}

func loadPages(a *assembly) error {
	pages, err := page.LoadRegistries(a.cfg.PageCfgPaths.ByCategory(), a.themes)
	if err != nil {
		return err
	}
	a.pages = pages
	return nil
}

func indexRoutes(a *assembly) error {
	routes, err := buildRoutes(a.pages)
	if err != nil {
		return err
	}
	a.routes = routes
	return nil
}

// check enforces the post-load invariants: a site needs pages and themes, and
// the default theme, when named, must exist.
func (a *assembly) check() error {
	if a.pages.Len() == 0 {
		return ferrors.NotFoundError("no pages configured").Build()
	}
	if len(a.themes) == 0 {
		return ferrors.NotFoundError("no themes configured").
			WithContext("path", a.cfg.ThemeDir).
			Build()
	}
	if a.cfg.DefaultTheme != "" && !a.themes.Has(a.cfg.DefaultTheme) {
		return ferrors.NotFoundError("default theme not found").
			WithContext("theme", a.cfg.DefaultTheme).
			Build()
	}
	return nil
}

func (a *assembly) freeze() *Snapshot {
	return &Snapshot{
		cfg:    *a.cfg,
		fonts:  a.fonts,
		themes: a.themes,
		pages:  a.pages,
		routes: a.routes,
	}
}
