// router-worker consumes map-processing and tour-request jobs from the
// queue endpoints and publishes one outcome message per job.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-router/pkg/config"
	"github.com/dd0wney/cluso-router/pkg/health"
	"github.com/dd0wney/cluso-router/pkg/jobs"
	"github.com/dd0wney/cluso-router/pkg/logging"
	"github.com/dd0wney/cluso-router/pkg/mapproc"
	"github.com/dd0wney/cluso-router/pkg/metrics"
	"github.com/dd0wney/cluso-router/pkg/server"
	"github.com/dd0wney/cluso-router/pkg/store"
	"github.com/dd0wney/cluso-router/pkg/transport"
	"github.com/dd0wney/cluso-router/pkg/tsp"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.DefaultLogger().Error("failed to load config", logging.Error(err))
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	logger.Info("route planner worker starting",
		logging.String("store_backend", cfg.Store.Backend),
		logging.String("admin_addr", cfg.AdminAddr),
	)

	st, closeStore, err := newStore(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize distance store", logging.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	registry := metrics.NewRegistry()
	builder := mapproc.NewBuilder(st, cfg.Workers, logger)
	handler := jobs.NewHandler(builder, st, tsp.Options{
		Seed:      cfg.TSP.Seed,
		MaxStarts: cfg.TSP.MaxStarts,
	}, logger, registry)

	service, err := jobs.NewService(transport.NewMangosSocketFactory(), cfg.Queues, handler, logger)
	if err != nil {
		logger.Error("failed to start job service", logging.Error(err))
		os.Exit(1)
	}
	service.Start()
	defer service.Stop()

	checker := health.NewHealthChecker()
	checker.RegisterCheck("store", health.StoreCheck(st))
	checker.RegisterCheck("consumers", health.ConsumersCheck(service.Running))
	if cfg.Store.Backend == "file" {
		checker.RegisterCheck("data_dir", health.DataDirCheck(cfg.Store.DataDir))
	}
	checker.RegisterReadinessCheck("store", health.StoreCheck(st))
	checker.RegisterReadinessCheck("consumers", health.ConsumersCheck(service.Running))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HTTPHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.Handle("/metrics", registry.Handler())

	admin := server.NewGracefulServer(cfg.AdminAddr, mux, logger)
	go func() {
		if err := admin.Start(); err != nil {
			logger.Error("admin server failed", logging.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("shutting down", logging.String("signal", sig.String()))
	if err := admin.Shutdown(30 * time.Second); err != nil {
		logger.Error("admin shutdown failed", logging.Error(err))
	}
}

func newStore(cfg config.Config, logger logging.Logger) (store.DistanceStore, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pg, err := store.NewPostgresStore(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		fs, err := store.NewFileStore(cfg.Store.DataDir, cfg.Store.Compress)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
