package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/internal/telemetry"
	"github.com/marmos91/vfsmount/pkg/api"
	"github.com/marmos91/vfsmount/pkg/api/auth"
	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/marmos91/vfsmount/pkg/config"
	"github.com/marmos91/vfsmount/pkg/mount"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the mount table over HTTP",
	Long: `Serve the mount table over HTTP until interrupted.

The API listens on api.port and exposes resolution, listing and catalog
endpoints. When metrics.enabled is set, Prometheus metrics are served on
/metrics.

Examples:
  vfsmount serve
  VFSMOUNT_API_PORT=9090 vfsmount serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shutdownTelemetry, err := initTelemetry(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	var (
		registry *prometheus.Registry
		opts     []mount.Option
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, mount.WithMetrics(mount.NewMetrics(registry)))
	}

	s, err := newSession(commandContext(cmd), cfg, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.manager.EnsureReady(); err != nil {
		return err
	}
	logger.InfoCtx(s.ctx, "Mount table loaded", logger.KeyCount, s.manager.Count())

	var gatherer prometheus.Gatherer
	if registry != nil {
		gatherer = registry
		logger.InfoCtx(s.ctx, "Metrics enabled", logger.KeyPort, s.cfg.API.Port)
	} else {
		logger.InfoCtx(s.ctx, "Metrics collection disabled")
	}

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	var routerOpts []api.RouterOption
	if s.cfg.API.JWTSecret != "" {
		tokens, err := auth.NewTokenService(s.cfg.API.JWTSecret)
		if err != nil {
			return err
		}
		routerOpts = append(routerOpts, api.WithAuth(tokens))
		logger.InfoCtx(s.ctx, "API authentication enabled")
	}

	server := api.NewServer(s.cfg.API, handlers.NewMountHandler(s.manager, s.catalog), gatherer, routerOpts...)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx, s.cfg.ShutdownTimeout)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.InfoCtx(s.ctx, "Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		logger.InfoCtx(s.ctx, "Shutdown signal received, initiating graceful shutdown")
		cancel()
		if err := <-serverDone; err != nil {
			return err
		}
		logger.InfoCtx(s.ctx, "Server stopped gracefully")
		return nil
	case err := <-serverDone:
		return err
	}
}

// initTelemetry starts tracing and profiling as configured. The returned
// function flushes and stops both.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(), error) {
	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	stopProfiling, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to initialize profiling: %w", err)
	}

	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if cfg.Telemetry.Profiling.Enabled {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	return func() {
		// ctx may already be cancelled; flushing needs its own deadline.
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.KeyError, err)
		}
		if err := stopProfiling(); err != nil {
			logger.Error("profiling shutdown error", logger.KeyError, err)
		}
	}, nil
}
