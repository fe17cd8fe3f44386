package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	handler "product-catalog/internal/handler/http"
	"product-catalog/internal/logger"
	"product-catalog/internal/repository"
	"product-catalog/internal/router"
	"product-catalog/internal/service"
	"product-catalog/internal/tracer"
	"product-catalog/pkg/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	log := logger.Instance()
	cfg := config.Instance()
	logger.SetRemote(cfg.RemoteLogHttpURI, cfg.AppName)

	shutdownTimeout := time.Duration(cfg.ShutdownTimeoutMs) * time.Millisecond

	// Tracing and profiling
	stopTelemetry, err := tracer.Init(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopTelemetry(flushCtx)
	}()

	// Store
	var (
		store         service.ProductStore
		healthHandler *handler.HealthHandler
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Warn("Using in-memory store; data is lost on exit")
		store = repository.NewInMemoryProductRepository()
	default:
		db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				log.Error("Failed to disconnect from MongoDB", slog.String("error", err.Error()))
			}
		}()

		store = repository.NewProductRepository(db.Database, cfg.MongoCollection)
		healthHandler = handler.NewHealthHandler(service.NewHealthService(db.Client))
	}

	// Wiring
	productService := service.NewProductService(store)
	productHandler := handler.NewProductHandler(productService)

	server := &http.Server{
		Addr: ":" + cfg.AppPort,
		Handler: router.New(router.Options{
			APIPrefix: cfg.APIPrefix,
			Products:  productHandler,
			Health:    healthHandler,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server running",
			slog.String("addr", server.Addr),
			slog.String("prefix", cfg.APIPrefix),
			slog.String("store", cfg.StoreBackend),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", slog.String("error", err.Error()))
			stop()
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", slog.String("error", err.Error()))
		}
	}

	log.Info("HTTP server stopped")
}
