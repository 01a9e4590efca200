// Package server serves a site snapshot over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/pagecontext"
	"github.com/ctcl/ctclsite/internal/server/middleware"
	"github.com/ctcl/ctclsite/internal/site"
	"github.com/ctcl/ctclsite/internal/templates"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server. Zero values get usable defaults.
type Options struct {
	Logger   *slog.Logger
	Registry *prom.Registry
	Recorder metrics.Recorder
}

// Server routes requests to static files, redirects and rendered pages.
type Server struct {
	holder    *site.Holder
	builder   *pagecontext.Builder
	templates *templates.Set
	adapter   *ferrors.HTTPErrorAdapter
	logger    *slog.Logger
	registry  *prom.Registry
	recorder  metrics.Recorder
}

// New returns a server for the snapshot published by holder.
func New(holder *site.Holder, tpl *templates.Set, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Server{
		holder:    holder,
		builder:   pagecontext.NewBuilder().WithRecorder(opts.Recorder),
		templates: tpl,
		adapter:   ferrors.NewHTTPErrorAdapter(opts.Logger),
		logger:    opts.Logger,
		registry:  opts.Registry,
		recorder:  opts.Recorder,
	}
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static", staticHandler{root: func() string {
		return s.holder.Load().OutputDir()
	}}))
	mux.Handle("GET /metrics", metrics.HTTPHandler(s.registry))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /", s.handlePage)
	return middleware.Chain(s.logger, s.adapter, s.recorder)(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Load()

	if target, ok := snap.Redirect(r.URL.Path); ok {
		code := http.StatusFound
		if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
			code = http.StatusMovedPermanently
		}
		http.Redirect(w, r, target, code)
		return
	}

	route, ok := snap.Route(r.URL.Path)
	if !ok {
		s.adapter.WriteErrorResponse(w, r, ferrors.NotFoundError("page not found").
			WithContext("path", r.URL.Path).
			Build())
		return
	}

	var body strings.Builder
	if err := s.RenderRoute(&body, snap, route); err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body.String()))
}

// RenderRoute builds the context for the page behind route and renders it
// through the most specific template. Nothing is written on failure.
func (s *Server) RenderRoute(w io.Writer, snap *site.Snapshot, route site.Route) error {
	ctx, err := s.builder.Build(snap, string(route.Category), route.ID)
	if err != nil {
		return err
	}
	name, err := s.templates.Lookup(ctx.Category(), ctx.PType())
	if err != nil {
		return err
	}
	return s.templates.Render(w, name, ctx)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "http server failed").
			WithContext("addr", addr).
			Build()
	case <-ctx.Done():
		s.logger.Info("Shutting down", slog.String("addr", addr))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
