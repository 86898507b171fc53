// Package main provides a local HTTP server for development and testing.
// It invokes the same collections handler the Lambda runs, so the connection
// cache behaves as it does in a warm Lambda environment.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"collections-probe/internal/config"
	"collections-probe/internal/handlers"
	"collections-probe/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Fatal("Failed to load config", zap.Error(err))
	}

	// Initialize logger first
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		utils.GetLogger().Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer utils.Sync()
	logger := utils.Logger

	handler, err := handlers.NewCollectionsHandlerFromConfig(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to create handler", zap.Error(err))
	}

	server := NewServer(handler, cfg.Stage)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           c.Handler(server.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := handler.Close(ctx); err != nil {
		logger.Error("Failed to close database connection", zap.Error(err))
	}
	logger.Info("Server stopped")
}
