// Package ssmservice retrieves database secrets from AWS Systems Manager Parameter Store.
package ssmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"collections-probe/internal/models"
	"collections-probe/internal/utils"
)

// ParameterAPI is the subset of the SSM client used by Service.
type ParameterAPI interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// Service fetches secret bundles from Parameter Store.
type Service struct {
	client ParameterAPI
}

// NewService creates a new SSM service using the default AWS credential chain.
func NewService(ctx context.Context, region string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewServiceWithClient(ssm.NewFromConfig(cfg)), nil
}

// NewServiceWithClient creates a service around an existing client.
func NewServiceWithClient(client ParameterAPI) *Service {
	return &Service{client: client}
}

// FetchSecrets retrieves the required database parameters under prefix with
// decryption. Values are keyed by their short name. The result is never cached.
func (s *Service) FetchSecrets(ctx context.Context, prefix string) (models.SecretBundle, error) {
	required := models.RequiredParameters()
	names := make([]string, 0, len(required))
	for _, name := range required {
		names = append(names, models.ParameterPath(prefix, name))
	}

	output, err := s.client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		utils.GetLogger().Error("Failed to get parameters",
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return nil, models.NewSecretRetrievalError(fmt.Errorf("failed to get parameters: %w", err))
	}

	if len(output.InvalidParameters) > 0 {
		return nil, models.NewSecretRetrievalError(
			fmt.Errorf("parameters not found: %s", strings.Join(output.InvalidParameters, ", ")))
	}

	bundle := make(models.SecretBundle, len(output.Parameters))
	for _, param := range output.Parameters {
		if param.Name == nil || param.Value == nil {
			continue
		}
		bundle[models.ShortName(*param.Name)] = *param.Value
	}

	if missing := bundle.Missing(); len(missing) > 0 {
		return nil, models.NewSecretRetrievalError(
			fmt.Errorf("parameters missing from response: %s", strings.Join(missing, ", ")))
	}

	utils.GetLogger().Debug("Retrieved parameters",
		zap.String("prefix", prefix),
		zap.Int("count", len(bundle)),
	)

	return bundle, nil
}
