package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "presupuestos/internal/http"
	"presupuestos/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	d, err := a.openDashboard(ctx, true, loadTolerant)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			a.logger.Error("Close failed", log.FieldError, err)
		}
	}()

	opts := apphttp.Options{
		Logger:    a.logger.WithComponent(log.ComponentHTTP),
		CacheSize: a.cfg.CacheSize,
		CacheTTL:  a.cfg.CacheTTL,
		RateLimit: a.cfg.RateLimit,
	}
	if d.repo != nil {
		opts.ReadyChecks = map[string]apphttp.ReadyCheck{"sqlite": d.repo.HealthCheck}
	}
	srv := apphttp.NewServer(a.cfg.Addr(), d.Dashboard, opts)
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	srv.StartBackground(gctx)

	g.Go(func() error {
		_, total := d.Counts()
		a.logger.Info("Starting presupuestos server",
			"addr", srv.Addr, log.FieldRecords, total, "backend", a.cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Server error", log.FieldError, err)
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
