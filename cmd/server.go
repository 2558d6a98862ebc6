package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"prepwise/internal/database"
	"prepwise/internal/features"
	"prepwise/internal/handler"
	"prepwise/internal/repo"
	"prepwise/internal/service"
	redisutil "prepwise/internal/utils/redis"
	rabbit "prepwise/pkg/rabbit/pkg"
)

func startServer(logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := database.Connect(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect mongo client", zap.Error(err))
		}
	}()

	generator, err := service.NewGeminiClient(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize generative client", zap.Error(err))
	}

	broker := rabbit.New(rabbit.ReadConfig())
	cache := redisutil.New(viper.GetBool("redis.enable"), &redisutil.Config{
		Address:   viper.GetString("redis.address"),
		Namespace: viper.GetString("redis.namespace"),
	})

	repository := repo.New(client, db, logger)
	prepwise := features.New(repository, generator, broker, cache, logger)

	go func() {
		if err := prepwise.StartCompletionWorker(ctx); err != nil {
			logger.Error("Completion worker stopped", zap.Error(err))
		}
	}()

	h := handler.New(prepwise, logger)
	health := handler.NewHealth(map[string]handler.ReadyCheck{
		"mongo": func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	port := viper.GetString("server.port")
	if port == "" {
		port = "8080"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: handler.NewRouter(h, health),
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("HTTP server stopped")
}
