package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/purview-dev/purview/internal/config"
	"github.com/purview-dev/purview/internal/demo"
	"github.com/purview-dev/purview/pkg/instrument"
	"github.com/purview-dev/purview/pkg/live"
	"github.com/purview-dev/purview/pkg/purview"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the demo telemetry store over WebSocket",
		Long: `Start the live server around a demo telemetry store.

Clients connect to /live and subscribe to named views; each store
transition pushes fresh values to every client whose selections changed.
A JSON snapshot of all views is available at /state.

Examples:
  purview serve
  purview serve --port=9000
  purview serve --config=/etc/purview.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to purview.toml")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")

	return cmd
}

func runServe(cfg config.Config) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var storeOpts []purview.StoreOption
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		storeOpts = append(storeOpts, purview.WithHook(instrument.Prometheus(
			instrument.WithNamespace(cfg.Metrics.Namespace),
			instrument.WithRegistry(registry),
		)))
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	store := demo.NewStore(storeOpts...)
	srv := live.NewServer(store, live.Config{
		Logger:         log,
		MetricsHandler: metricsHandler,
	})
	defer srv.Close()

	for name, view := range demo.Views() {
		srv.RegisterView(name, view)
	}

	interval, err := cfg.Sim.TickInterval()
	if err != nil {
		return err
	}
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSimulator(ctx, srv, demo.NewSimulator(seed), interval)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("live server listening",
			"addr", cfg.Server.Addr(),
			"views", srv.ViewNames(),
			"metrics", cfg.Metrics.Enabled)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// runSimulator feeds synthetic traffic into the hosted store until ctx ends.
// Writes go through the server's dispatch loop.
func runSimulator(ctx context.Context, srv *live.Server[demo.Telemetry], sim *demo.Simulator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.Dispatch(func(store *purview.Store[demo.Telemetry]) {
				store.Update(sim.Step)
			})
		}
	}
}
