package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/adapters/http/api"
	"github.com/okian/closet/internal/adapters/http/site"
	"github.com/okian/closet/internal/adapters/http/swagger"
	service "github.com/okian/closet/internal/app"
	"github.com/okian/closet/internal/config"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 40 * time.Second // covers the longest search ?wait
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	var regenerate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the outfit API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				e.cfg.Addr = addr
			}
			return e.serve(cmd.Context(), regenerate)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&regenerate, "regenerate", true, "build the outfit catalogue before serving")
	return cmd
}

func (e *env) serve(parent context.Context, regenerate bool) error {
	// System metrics are published by startSystemMetricsUpdater instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	configureMetrics(e.cfg)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, release, err := e.service(ctx)
	if err != nil {
		return err
	}
	defer release()

	if regenerate {
		if _, err := svc.Regenerate(ctx); err != nil {
			// An unreadable wardrobe is reported but does not stop the server;
			// POST /outfits/regenerate can retry once it is fixed.
			e.log.Error(ctx, "initial regeneration failed", logger.Error(err))
		}
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              e.cfg.Addr,
		Handler:           newMux(ctx, svc, e.cfg.MaxTopLimit),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	pages, err := site.Pages()
	if err != nil {
		e.log.Warn(ctx, "docs site unreadable", logger.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		e.log.Info(ctx, "starting HTTP server",
			logger.String("addr", e.cfg.Addr),
			logger.Any("docs", pages))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	e.log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		e.log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	e.log.Info(ctx, "server stopped")
	return nil
}

// configureMetrics applies the metric naming and latency buckets from cfg.
func configureMetrics(cfg *config.Config) {
	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBucketsMS),
	)
}

// newMux wires docs and the API onto one mux.
func newMux(ctx context.Context, svc *service.Service, maxTopLimit int) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc, maxTopLimit).Register(ctx, mux)
	return mux
}

func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
