package ssmservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collections-probe/internal/models"
	ssmservice "collections-probe/internal/services/ssm"
)

type mockSSMClient struct {
	output *ssm.GetParametersOutput
	err    error
	calls  []*ssm.GetParametersInput
}

func (m *mockSSMClient) GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func parameter(name, value string) types.Parameter {
	return types.Parameter{Name: aws.String(name), Value: aws.String(value)}
}

func TestFetchSecrets_Success(t *testing.T) {
	client := &mockSSMClient{output: &ssm.GetParametersOutput{
		Parameters: []types.Parameter{
			parameter("/dev/MONGO_DB_URI", "mongodb://db.internal:27017/app"),
			parameter("/dev/MONGO_DB_USER", "app"),
			parameter("/dev/MONGO_DB_PASSWORD", "s3cret"),
		},
	}}

	bundle, err := ssmservice.NewServiceWithClient(client).FetchSecrets(context.Background(), "dev")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017/app", bundle.URI())
	assert.Equal(t, "app", bundle.User())
	assert.Equal(t, "s3cret", bundle.Password())

	require.Len(t, client.calls, 1)
	assert.Equal(t, []string{"/dev/MONGO_DB_URI", "/dev/MONGO_DB_USER", "/dev/MONGO_DB_PASSWORD"}, client.calls[0].Names)
	assert.True(t, aws.ToBool(client.calls[0].WithDecryption))
}

func TestFetchSecrets_NotCached(t *testing.T) {
	client := &mockSSMClient{output: &ssm.GetParametersOutput{
		Parameters: []types.Parameter{
			parameter("/dev/MONGO_DB_URI", "mongodb://localhost"),
			parameter("/dev/MONGO_DB_USER", ""),
			parameter("/dev/MONGO_DB_PASSWORD", ""),
		},
	}}
	svc := ssmservice.NewServiceWithClient(client)

	for i := 0; i < 3; i++ {
		_, err := svc.FetchSecrets(context.Background(), "dev")
		require.NoError(t, err)
	}

	assert.Len(t, client.calls, 3)
}

func TestFetchSecrets_StoreUnreachable(t *testing.T) {
	client := &mockSSMClient{err: errors.New("connection refused")}

	bundle, err := ssmservice.NewServiceWithClient(client).FetchSecrets(context.Background(), "dev")

	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, models.ErrSecretRetrieval)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchSecrets_InvalidParameters(t *testing.T) {
	client := &mockSSMClient{output: &ssm.GetParametersOutput{
		Parameters: []types.Parameter{
			parameter("/dev/MONGO_DB_URI", "mongodb://localhost"),
			parameter("/dev/MONGO_DB_USER", "app"),
		},
		InvalidParameters: []string{"/dev/MONGO_DB_PASSWORD"},
	}}

	_, err := ssmservice.NewServiceWithClient(client).FetchSecrets(context.Background(), "dev")

	assert.ErrorIs(t, err, models.ErrSecretRetrieval)
	assert.Contains(t, err.Error(), "/dev/MONGO_DB_PASSWORD")
}

func TestFetchSecrets_MissingFromResponse(t *testing.T) {
	client := &mockSSMClient{output: &ssm.GetParametersOutput{
		Parameters: []types.Parameter{
			parameter("/dev/MONGO_DB_URI", "mongodb://localhost"),
		},
	}}

	_, err := ssmservice.NewServiceWithClient(client).FetchSecrets(context.Background(), "dev")

	assert.ErrorIs(t, err, models.ErrSecretRetrieval)
	assert.Contains(t, err.Error(), "MONGO_DB_USER")
	assert.Contains(t, err.Error(), "MONGO_DB_PASSWORD")
}
