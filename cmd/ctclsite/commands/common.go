package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ctcl/ctclsite/internal/config"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/site"
	"github.com/ctcl/ctclsite/internal/templates"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file path" default:"${config_path}"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve ServeCmd `cmd:"" help:"Serve the site over HTTP"`
	Build BuildCmd `cmd:"" help:"Render every page into a static directory"`
	Check CheckCmd `cmd:"" help:"Build every page context and verify internal links"`
	Init  InitCmd  `cmd:"" help:"Write a starter site"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.LoggingConfig{}.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// loadSite resolves the site and its templates, then switches the default
// logger to the site's logging settings.
func loadSite(g *Global, root *CLI, rec metrics.Recorder) (*site.Snapshot, *templates.Set, error) {
	snap, err := site.NewLoader(root.Config).WithRecorder(rec).Load()
	if err != nil {
		return nil, nil, err
	}

	logger := snap.Logging().NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger

	tpl, err := templates.Load(snap.TemplateDir())
	if err != nil {
		return nil, nil, err
	}
	return snap, tpl, nil
}
