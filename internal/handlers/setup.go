package handlers

import (
	"context"

	"collections-probe/internal/config"
	"collections-probe/internal/services/database"
	s3service "collections-probe/internal/services/s3"
	ssmservice "collections-probe/internal/services/ssm"
)

// NewCollectionsHandlerFromConfig wires the AWS-backed secret store, a fresh
// connection cache and, when configured, the S3 snapshot writer.
func NewCollectionsHandlerFromConfig(ctx context.Context, cfg *config.Config) (*CollectionsHandler, error) {
	secrets, err := ssmservice.NewService(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	cache := database.NewConnectionCache(database.NewSchemeConnector())

	opts := []Option{WithTimeout(cfg.InvocationTimeout)}
	if cfg.SnapshotsEnabled() {
		snapshots, err := s3service.NewService(ctx, cfg.AWSRegion, cfg.SnapshotBucket, cfg.SnapshotPrefix)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithSnapshots(snapshots))
	}

	return NewCollectionsHandler(cfg.ParameterStoreFolder, secrets, cache, opts...), nil
}
