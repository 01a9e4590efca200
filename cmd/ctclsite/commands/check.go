package commands

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/linkverify"
	"github.com/ctcl/ctclsite/internal/logfields"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/server"
	"github.com/ctcl/ctclsite/internal/site"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	SkipLinks bool `name:"skip-links" help:"Only build page contexts; do not verify internal links"`

	out io.Writer
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	snap, tpl, err := loadSite(g, root, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	srv := server.New(site.NewHolder(snap), tpl, server.Options{Logger: g.Logger})
	verifier := linkverify.NewVerifier(snap)

	var failed, broken int
	for _, route := range snap.Routes() {
		var buf bytes.Buffer
		if err := srv.RenderRoute(&buf, snap, route); err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "FAIL %s (%s/%s): %v\n", route.Path, route.Category, route.ID, err)
			continue
		}
		if c.SkipLinks {
			continue
		}
		links, err := verifier.VerifyPage(route.Path, &buf)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", route.Path, err)
			continue
		}
		for _, l := range links {
			broken++
			_, _ = fmt.Fprintf(out, "BROKEN %s -> %s <%s>: %s\n", l.Page, l.URL, l.Tag, l.Reason)
		}
	}

	g.Logger.Info("Check complete",
		logfields.Count(len(snap.Routes())),
		logfields.Stage("check"),
		slog.Int("failed", failed),
		slog.Int("broken_links", broken))

	if failed > 0 || broken > 0 {
		return ferrors.ValidationError("site check failed").
			WithContext("failed_pages", failed).
			WithContext("broken_links", broken).
			Build()
	}
	_, _ = fmt.Fprintf(out, "OK %d pages\n", len(snap.Routes()))
	return nil
}
