package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"product-catalog/internal/client"
	"product-catalog/internal/config"
	"product-catalog/internal/logger"
	"product-catalog/internal/model"
	"product-catalog/internal/tracer"
	"product-catalog/internal/utils"

	"github.com/google/uuid"
)

// Runs create, review, list and delete once against CLIENT_TARGET_HTTP.
func main() {
	ctx := context.Background()
	log := logger.Instance()
	cfg, err := config.LoadClient()
	if err != nil {
		log.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	_ = logger.SetLevel(cfg.LogLevel)
	logger.SetRemote(cfg.RemoteLogHttpURI, cfg.AppName)

	stopTelemetry, err := tracer.Init(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stopTelemetry(ctx)

	c := client.NewCatalogClient(cfg.ClientTargetHTTP, cfg.APIPrefix, 5*time.Second)

	if err := run(ctx, c); err != nil {
		log.Error("Smoke run failed", slog.String("error", err.Error()))
		stopTelemetry(ctx)
		os.Exit(1)
	}
	log.Info("Smoke run succeeded", slog.String("target", cfg.ClientTargetHTTP))
}

func run(ctx context.Context, c *client.CatalogClient) error {
	runID := uuid.NewString()

	created, err := c.CreateProduct(ctx, model.ProductInput{
		Name:        "Widget " + runID,
		Description: "A widget",
		Image:       "w.jpg",
	})
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	logger.Info(ctx, "Created product", slog.String("run_id", runID), slog.String("product", utils.ToJSONString(created)))

	rating := 5.0
	reviewed, err := c.AddReview(ctx, created.ID.Hex(), model.Review{
		User:    "smoke-" + runID[:8],
		Rating:  &rating,
		Comment: "Great product!",
	})
	if err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	logger.Info(ctx, "Added review", slog.Int("reviews", len(reviewed.Reviews)))

	products, err := c.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	logger.Info(ctx, "Received products", slog.Int("count", len(products)))

	deleted, err := c.DeleteProduct(ctx, created.ID.Hex())
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	logger.Info(ctx, deleted.Message, slog.String("product", utils.ToJSONString(deleted.DeletedProduct)))

	return nil
}
