// cmd/portal/run.go
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/observability"
	"github.com/TimLS94/IJP-Portal-sub000/internal/sweeper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the portal background services",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	d.zap.Info("starting portal services")

	obs := observability.New(app)
	defer obs.Shutdown()

	if err := d.store.MigrateLowercaseEnums(ctx); err != nil {
		return err
	}

	if d.cfg.Sweeper.Enabled {
		sw := sweeper.New(d.store, d.reg, d.interviews, d.index,
			time.Duration(d.cfg.Sweeper.Interval)*time.Second, d.log)
		go sw.Run(ctx)
		d.zap.Info("sweeper started", zap.Int("interval_seconds", d.cfg.Sweeper.Interval))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: d.cfg.App.MetricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.zap.Error("metrics server failed", zap.Error(err))
		}
	}()
	d.zap.Info("metrics listening", zap.String("addr", d.cfg.App.MetricsAddr))

	<-ctx.Done()
	d.zap.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return nil
}
