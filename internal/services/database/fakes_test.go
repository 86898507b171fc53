package database

import (
	"context"
	"sync"
	"sync/atomic"
)

type fakeConnection struct {
	names   []string
	listErr error
	closed  atomic.Bool
}

func (c *fakeConnection) Driver() string   { return "fake" }
func (c *fakeConnection) Database() string { return "app" }

func (c *fakeConnection) ListCollectionNames(ctx context.Context) ([]string, error) {
	return c.names, c.listErr
}

func (c *fakeConnection) Close(ctx context.Context) error {
	c.closed.Store(true)
	return nil
}

type fakeConnector struct {
	mu   sync.Mutex
	conn Connection
	err  error
	seen []ConnectOptions
}

func (f *fakeConnector) Connect(ctx context.Context, opts ConnectOptions) (Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.conn, nil
}

func (f *fakeConnector) calls() []ConnectOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ConnectOptions(nil), f.seen...)
}
