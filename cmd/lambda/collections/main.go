// Collections probe Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
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

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	// Create handler
	handler, err := handlers.NewCollectionsHandlerFromConfig(context.Background(), cfg)
	if err != nil {
		utils.GetLogger().Fatal("Failed to create handler", zap.Error(err))
	}

	// Start Lambda. The handler's connection cache outlives each invocation
	// and is never closed here, so warm environments reuse the connection.
	lambda.Start(handler.Handle)
}
