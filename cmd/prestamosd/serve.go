package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"prestamos-admin/internal/catalog"
	"prestamos-admin/internal/db"
	"prestamos-admin/internal/events"
	"prestamos-admin/internal/metrics"
	"prestamos-admin/internal/notification"
	"prestamos-admin/internal/store"
	"prestamos-admin/internal/upstream"
	"prestamos-admin/internal/web"
)

func serveCommand(opts *options, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts, logger)
		},
	}
}

func serve(opts *options, logger *log.Logger) error {
	cfg := opts.cfg
	logger.Printf("loan API at %s", cfg.Upstream.BaseURL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	upstreamMetrics, err := metrics.NewUpstreamMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Printf("failed to initialize database: %v", err)
		return err
	}
	logger.Println("database initialized successfully")
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := upstream.NewClient(&cfg.Upstream, upstreamMetrics)
	equipment := catalog.New(client, cfg.Upstream.CatalogTTL)

	bus := events.NewBus()
	bus.Subscribe(equipment.HandleEvent)
	bus.Subscribe(store.NewJournal(appStore).HandleEvent)

	var webpushOptions *webpush.Options
	var workerPool *notification.WorkerPool
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		workerPool.Start(ctx)
		bus.Subscribe(workerPool.HandleEvent)
		logger.Printf("push notifications enabled with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; push notifications disabled")
	}

	handler := web.NewHandler(client, equipment, bus, appStore, webpushOptions)
	router, err := web.NewRouter(handler, cfg.Server, registry)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		logger.Printf("HTTP server ListenAndServe: %v", err)
		return err
	case <-stop:
	}
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
		return err
	}

	cancel()
	if workerPool != nil {
		workerPool.Wait()
	}

	logger.Println("Server gracefully stopped")
	return nil
}
