package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/app"
	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/repository/postgres"
	bgworker "github.com/bloodlink/bloodlink-api/internal/worker"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
	"github.com/bloodlink/bloodlink-api/pkg/worker"
)

const healthAddr = ":8081"

func setupHealthCheck(registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health check server failed")
		}
	}()
	return srv
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(logger.Config{Level: cfg.App.LogLevel, Pretty: cfg.App.LogPretty})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, _ := app.ConnectBroker(ctx, cfg.Redis)
	defer broker.Close()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, cfg.Server.MetricsPrefix)
	mailer := email.NewService(cfg.SMTP)

	svcs, err := app.NewServices(cfg, app.Deps{
		Repos:     postgres.NewStore(db),
		Publisher: broker,
		Mailer:    mailer,
		Metrics:   m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	cleanup, err := worker.NewPeriodic(
		bgworker.NewNotificationCleanupWorker(svcs.Notifications, cfg.Notification.RetentionDays),
		worker.PeriodicConfig{Interval: cfg.Notification.CleanupInterval},
		m,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid notification cleanup settings")
	}
	lowStock, err := worker.NewPeriodic(
		bgworker.NewLowStockMonitor(svcs.Inventory),
		worker.PeriodicConfig{Interval: cfg.Inventory.MonitorInterval, RunOnStart: true},
		m,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid low stock monitor settings")
	}

	adapter := messaging.NewBrokerAdapter(broker)
	dispatcher := bgworker.NewEmailDispatcher(mailer, m)
	if err := dispatcher.Start(ctx, adapter, cfg.Notification.Channel); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to notifications")
	}

	healthSrv := setupHealthCheck(registry)

	var wg sync.WaitGroup
	for _, p := range []*worker.Periodic{cleanup, lowStock} {
		wg.Add(1)
		go func(p *worker.Periodic) {
			defer wg.Done()
			p.Start(ctx)
		}(p)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutting down...")
	cancel()

	wg.Wait()
	adapter.Wait()

	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer done()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server shutdown failed")
	}
	log.Info().Msg("worker exited")
}
