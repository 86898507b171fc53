// Package s3service writes catalog snapshots to S3.
package s3service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"collections-probe/internal/models"
	"collections-probe/internal/utils"
)

// PutObjectAPI is the subset of the S3 client used by Service.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Service handles S3 operations
type Service struct {
	client     PutObjectAPI
	bucketName string
	prefix     string
}

// NewService creates a new S3 service
func NewService(ctx context.Context, region, bucket, prefix string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewServiceWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewServiceWithClient creates a service around an existing client.
func NewServiceWithClient(client PutObjectAPI, bucket, prefix string) *Service {
	return &Service{
		client:     client,
		bucketName: bucket,
		prefix:     prefix,
	}
}

// SnapshotKey returns the object key for a report, partitioned by capture date.
func (s *Service) SnapshotKey(report *models.CatalogReport) string {
	return path.Join(s.prefix, report.CapturedAt.UTC().Format("2006/01/02"), report.InvocationID+".json")
}

// WriteCatalog uploads the report as JSON and returns its key.
func (s *Service) WriteCatalog(ctx context.Context, report *models.CatalogReport) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog report: %w", err)
	}

	key := s.SnapshotKey(report)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		utils.GetLogger().Error("Failed to upload catalog snapshot",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	utils.GetLogger().Info("Uploaded catalog snapshot",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return key, nil
}
