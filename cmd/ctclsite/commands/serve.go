package commands

import (
	"context"
	"log/slog"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ctcl/ctclsite/internal/metrics"
	"github.com/ctcl/ctclsite/internal/server"
	"github.com/ctcl/ctclsite/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Bind string `help:"Override bindip from the site configuration"`
	Port int    `short:"p" help:"Override bindport from the site configuration"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewPrometheusRecorder(reg)

	snap, tpl, err := loadSite(g, root, rec)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(site.NewHolder(snap), tpl, server.Options{
		Logger:   g.Logger,
		Registry: reg,
		Recorder: rec,
	})
	addr := s.addr(snap.Addr())
	g.Logger.Info("Serving site",
		slog.String("addr", addr),
		slog.Int("pages", snap.PageCount()),
		slog.Int("routes", len(snap.Routes())))
	return srv.Run(ctx, addr)
}

func (s *ServeCmd) addr(configured string) string {
	if s.Bind == "" && s.Port == 0 {
		return configured
	}
	host, port, err := net.SplitHostPort(configured)
	if err != nil {
		return configured
	}
	if s.Bind != "" {
		host = s.Bind
	}
	if s.Port != 0 {
		port = strconv.Itoa(s.Port)
	}
	return net.JoinHostPort(host, port)
}
