// Package config provides configuration management for the collections probe.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1" validate:"required"`

	// Parameter store folder holding MONGO_DB_URI, MONGO_DB_USER and MONGO_DB_PASSWORD.
	ParameterStoreFolder string `envconfig:"PARAMETER_STORE_FOLDER_NAME" validate:"required"`

	// Snapshot
	SnapshotBucket string `envconfig:"SNAPSHOT_BUCKET"`
	SnapshotPrefix string `envconfig:"SNAPSHOT_PREFIX" default:"collections"`

	// Invocation
	InvocationTimeout time.Duration `envconfig:"INVOCATION_TIMEOUT" default:"0s" validate:"gte=0"`

	// Local server
	ServerPort int `envconfig:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`

	// Application
	Stage    string `envconfig:"STAGE" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// SnapshotsEnabled reports whether catalog snapshots should be written to S3.
func (c *Config) SnapshotsEnabled() bool {
	return c.SnapshotBucket != ""
}

// ServerAddr returns the listen address for the local server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
