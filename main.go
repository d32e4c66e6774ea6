package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"search-bridge/bridge"
	"search-bridge/config"
	"search-bridge/consumer"
	"search-bridge/domain"
	"search-bridge/driver"
	"search-bridge/gateway"
	"search-bridge/indexer"
	"search-bridge/logger"
	"search-bridge/registry"
	"search-bridge/rest"
	"search-bridge/server"
	otelutil "search-bridge/utils/otel"
)

func main() {
	otelCfg := otelutil.ConfigFromEnv()
	logger.InitWithOTel(otelCfg.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	otelShutdown, err := otelutil.InitProvider(ctx, otelCfg)
	if err != nil {
		logger.Logger.Error("failed to initialize OpenTelemetry", "err", err)
		return
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("invalid configuration", "err", err)
		return
	}

	msClient, err := connectMeilisearch(ctx, cfg)
	if err != nil {
		logger.Logger.Error("failed to connect to Meilisearch", "err", err)
		return
	}

	store := gateway.NewSearchEngineGateway(
		driver.NewMeilisearchDriver(msClient, cfg.Meilisearch.Timeout),
	)

	modelRegistry := registry.NewStatic()
	for _, t := range config.EntityTypes() {
		modelRegistry.Register(domain.EntityType(t))
	}

	searchBridge := bridge.New(store, modelRegistry, indexer.Options{
		ChunkSize:  cfg.Indexer.ChunkSize,
		MaxRetries: cfg.Indexer.MaxRetries,
		RetryDelay: cfg.Indexer.RetryDelay,
	}, logger.Logger)

	handler := rest.NewHandler(searchBridge, store, logger.Logger)
	srv := server.New(cfg, handler, logger.Logger)

	eventHandler := consumer.NewBridgeEventHandler(searchBridge, logger.Logger)
	streamConsumer, err := consumer.NewConsumer(consumer.ConfigFromEnv(), eventHandler, logger.Logger)
	if err != nil {
		logger.Logger.Error("failed to create stream consumer", "err", err)
		return
	}
	if err := streamConsumer.Start(ctx); err != nil {
		logger.Logger.Error("failed to start stream consumer", "err", err)
		return
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http server", "err", err)
		}
	}()

	<-ctx.Done()

	streamConsumer.Stop()
	eventHandler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// connectMeilisearch builds the store client and waits for it to come up.
func connectMeilisearch(ctx context.Context, cfg *config.Config) (meilisearch.ServiceManager, error) {
	const maxRetries = 5
	const retryDelay = 5 * time.Second

	logger.Logger.Info("Connecting to Meilisearch", "host", cfg.Meilisearch.Host)

	client := meilisearch.New(cfg.Meilisearch.Host, meilisearch.WithAPIKey(cfg.Meilisearch.APIKey))

	for i := 0; i < maxRetries; i++ {
		if _, healthErr := client.HealthWithContext(ctx); healthErr == nil {
			logger.Logger.Info("Connected to Meilisearch successfully")
			return client, nil
		} else if i < maxRetries-1 {
			logger.Logger.Warn("Meilisearch not ready, retrying",
				"attempt", i+1, "max", maxRetries, "err", healthErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		} else {
			return nil, fmt.Errorf("meilisearch not healthy after %d attempts: %w", maxRetries, healthErr)
		}
	}
	return client, nil
}
