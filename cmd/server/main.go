package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestor-urbano/internal/assistant"
	"gestor-urbano/internal/config"
	"gestor-urbano/internal/handlers"
	"gestor-urbano/internal/middleware"
	"gestor-urbano/internal/persistence"
	"gestor-urbano/internal/routes"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Slot de snapshot: arquivo local por padrão, Redis opcional
	snapshotStore, err := newSnapshotStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize snapshot storage", zap.Error(err))
	}
	defer snapshotStore.Close()

	adapter := persistence.NewAdapter(snapshotStore, logger)
	st := store.New(ctx, adapter, logger)

	// Assistente: sem chave de API o gateway responde só com a contingência
	model := initializeLLM(cfg, logger)
	gateway := assistant.NewGateway(model, logger)

	productionHandler := handlers.NewProductionHandler(st, logger)
	inventoryHandler := handlers.NewInventoryHandler(st, logger)
	financeHandler := handlers.NewFinanceHandler(st, logger)
	employeeHandler := handlers.NewEmployeeHandler(st, logger)
	dashboardHandler := handlers.NewDashboardHandler(st, logger)
	assistantHandler := handlers.NewAssistantHandler(st, gateway, logger)
	healthChecker := middleware.NewHealthChecker(adapter, cfg.Storage.Backend, model != nil, logger)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.RequestIDMiddleware())

	routes.SetupRoutes(router,
		productionHandler,
		inventoryHandler,
		financeHandler,
		employeeHandler,
		dashboardHandler,
		assistantHandler,
		healthChecker,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}

		cancel()
	}()

	middleware.ServerInfo(cfg.Server.Port, cfg.Storage.Backend, logger)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newSnapshotStore(cfg *config.Config, logger *zap.Logger) (persistence.SnapshotStore, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return persistence.NewRedisStore(
			cfg.Storage.RedisURL,
			cfg.Storage.RedisPassword,
			cfg.Storage.RedisDB,
			cfg.Storage.Key,
			logger,
		)
	case "file":
		return persistence.NewFileStore(cfg.Storage.FilePath)
	default:
		return nil, fmt.Errorf("backend de snapshot desconhecido: %s", cfg.Storage.Backend)
	}
}

func initializeLLM(cfg *config.Config, logger *zap.Logger) llms.LLM {
	if cfg.Assistant.APIKey == "" {
		logger.Warn("ASSISTANT_API_KEY não configurada, assistente responderá com contingência")
		return nil
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Assistant.Model),
		openai.WithToken(cfg.Assistant.APIKey),
	}
	if cfg.Assistant.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Assistant.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize LLM client", zap.Error(err))
		return nil
	}
	return model
}
