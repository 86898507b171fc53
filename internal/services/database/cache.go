package database

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"collections-probe/internal/models"
	"collections-probe/internal/utils"
)

// State is the lifecycle state of a ConnectionCache.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateConnected     State = "CONNECTED"
)

// ConnectionCache lazily establishes one connection and hands it out to every
// later caller without re-validating it. It is meant to live for the whole
// process so the connection survives across Lambda invocations.
type ConnectionCache struct {
	connector Connector

	mu   sync.RWMutex
	conn Connection

	group    singleflight.Group
	attempts atomic.Int64
}

// NewConnectionCache creates an empty cache backed by connector.
func NewConnectionCache(connector Connector) *ConnectionCache {
	return &ConnectionCache{connector: connector}
}

// Ensure returns the cached connection, connecting first if there is none.
// A failed attempt is not cached; the next call tries again.
func (c *ConnectionCache) Ensure(ctx context.Context, secrets models.SecretBundle) (Connection, error) {
	if conn := c.cached(); conn != nil {
		return conn, nil
	}

	v, err, _ := c.group.Do("connect", func() (interface{}, error) {
		// another caller may have finished connecting while we waited
		if conn := c.cached(); conn != nil {
			return conn, nil
		}
		return c.connect(ctx, secrets)
	})
	if err != nil {
		return nil, err
	}

	return v.(Connection), nil
}

func (c *ConnectionCache) connect(ctx context.Context, secrets models.SecretBundle) (Connection, error) {
	logger := utils.GetLogger()
	opts := BuildConnectOptions(secrets)

	c.attempts.Add(1)
	logger.Info("=> connecting to database",
		zap.Time("at", time.Now().UTC()),
		zap.Bool("auth", opts.Auth != nil),
	)

	conn, err := c.connector.Connect(ctx, opts)
	if err != nil {
		logger.Error("Error connecting to db", zap.Error(err))
		return nil, models.NewConnectionError(err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	logger.Info("Connected to database",
		zap.String("driver", conn.Driver()),
		zap.String("database", conn.Database()),
	)

	return conn, nil
}

func (c *ConnectionCache) cached() Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// State reports whether a connection has been cached.
func (c *ConnectionCache) State() State {
	if c.cached() != nil {
		return StateConnected
	}
	return StateUninitialized
}

// Attempts returns how many connection attempts have been made.
func (c *ConnectionCache) Attempts() int64 {
	return c.attempts.Load()
}

// Close releases the cached connection and resets the cache. Lambda handlers
// never call this; it exists for long-running processes shutting down.
func (c *ConnectionCache) Close(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close(ctx)
}
