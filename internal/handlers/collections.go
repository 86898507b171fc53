// Package handlers provides Lambda handlers for the collections probe.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"collections-probe/internal/models"
	"collections-probe/internal/services/database"
	"collections-probe/internal/utils"
)

// SuccessResult is returned by every successful invocation. The collection
// names themselves are only logged.
const SuccessResult = "SUCCESS"

// SecretFetcher retrieves the secret bundle for an invocation.
type SecretFetcher interface {
	FetchSecrets(ctx context.Context, prefix string) (models.SecretBundle, error)
}

// SnapshotWriter persists a catalog report.
type SnapshotWriter interface {
	WriteCatalog(ctx context.Context, report *models.CatalogReport) (string, error)
}

// CollectionsHandler lists the collections of the configured database using a
// connection cached for the lifetime of the process.
type CollectionsHandler struct {
	secrets   SecretFetcher
	cache     *database.ConnectionCache
	snapshots SnapshotWriter
	prefix    string
	timeout   time.Duration
}

// Option configures a CollectionsHandler.
type Option func(*CollectionsHandler)

// WithSnapshots writes a catalog report after each successful listing.
func WithSnapshots(w SnapshotWriter) Option {
	return func(h *CollectionsHandler) {
		h.snapshots = w
	}
}

// WithTimeout bounds each invocation. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(h *CollectionsHandler) {
		h.timeout = d
	}
}

// NewCollectionsHandler creates a new collections handler. The cache should be
// created once per process and shared by every invocation.
func NewCollectionsHandler(prefix string, secrets SecretFetcher, cache *database.ConnectionCache, opts ...Option) *CollectionsHandler {
	h := &CollectionsHandler{
		secrets: secrets,
		cache:   cache,
		prefix:  prefix,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle runs one invocation: fetch secrets, connect or reuse the cached
// connection, list collections. The connection is left open on return so the
// next invocation in this environment can reuse it.
func (h *CollectionsHandler) Handle(ctx context.Context, event json.RawMessage) (result string, err error) {
	invocationID := invocationIDFromContext(ctx)
	logger := utils.ForInvocation(invocationID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Error", zap.Any("panic", r), zap.Stack("stack"))
			result = ""
			err = models.NewUnexpectedError(fmt.Errorf("panic: %v", r))
		}
	}()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	logger.Info("Running collections probe with event", zap.String("event", eventString(event)))

	secrets, err := h.secrets.FetchSecrets(ctx, h.prefix)
	if err != nil {
		err = ensureKind(err, models.ErrSecretRetrieval, models.NewSecretRetrievalError)
		logger.Error("Error pulling parameters", zap.Error(err))
		return "", err
	}

	conn, err := h.cache.Ensure(ctx, secrets)
	if err != nil {
		err = ensureKind(err, models.ErrConnection, models.NewConnectionError)
		logger.Error("Error connecting to db", zap.Error(err))
		return "", err
	}

	names, err := database.ListCollections(ctx, conn)
	if err != nil {
		logger.Error("Error listing collections", zap.Error(err))
		return "", err
	}

	logger.Info("collections",
		zap.String("driver", conn.Driver()),
		zap.String("database", conn.Database()),
		zap.Strings("collections", names),
	)

	if h.snapshots != nil {
		report := models.NewCatalogReport(invocationID, conn.Driver(), conn.Database(), names)
		if _, err := h.snapshots.WriteCatalog(ctx, report); err != nil {
			err = models.NewSnapshotError(err)
			logger.Error("Error writing catalog snapshot", zap.Error(err))
			return "", err
		}
	}

	return SuccessResult, nil
}

// State reports the connection cache state.
func (h *CollectionsHandler) State() database.State {
	return h.cache.State()
}

// Close releases the cached connection. Only long-running processes call this.
func (h *CollectionsHandler) Close(ctx context.Context) error {
	return h.cache.Close(ctx)
}

func invocationIDFromContext(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

func eventString(event json.RawMessage) string {
	if len(event) == 0 {
		return "null"
	}
	return string(event)
}

func ensureKind(err, kind error, wrap func(error) error) error {
	if errors.Is(err, kind) {
		return err
	}
	return wrap(err)
}
