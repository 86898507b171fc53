// Package database provides the cached database connection and collection
// listing for the collections probe.
package database

import (
	"context"
	"fmt"
	"strings"

	"collections-probe/internal/models"
)

// Driver names reported by connections.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
)

// Connection is an established database session.
type Connection interface {
	// Driver returns the driver name, e.g. "mongodb".
	Driver() string
	// Database returns the name of the database the session is bound to.
	Database() string
	// ListCollectionNames returns the names of the collections (or tables)
	// currently present in the database.
	ListCollectionNames(ctx context.Context) ([]string, error)
	// Close releases the session.
	Close(ctx context.Context) error
}

// Connector establishes new connections.
type Connector interface {
	Connect(ctx context.Context, opts ConnectOptions) (Connection, error)
}

// Credentials are passed through to the driver unchanged.
type Credentials struct {
	Username string
	Password string
}

// ConnectOptions describes one connection attempt. Auth is nil when the
// connection must be made without credentials.
type ConnectOptions struct {
	URI  string
	Auth *Credentials
}

// BuildConnectOptions derives connect options from a secret bundle. Credentials
// are attached when either the user or the password is non-empty; a partial pair
// is still passed through as-is rather than rejected.
func BuildConnectOptions(secrets models.SecretBundle) ConnectOptions {
	opts := ConnectOptions{URI: secrets.URI()}

	user, password := secrets.User(), secrets.Password()
	if user != "" || password != "" {
		opts.Auth = &Credentials{Username: user, Password: password}
	}

	return opts
}

// ListCollections returns the collection names visible through conn.
func ListCollections(ctx context.Context, conn Connection) ([]string, error) {
	names, err := conn.ListCollectionNames(ctx)
	if err != nil {
		return nil, models.NewQueryError(fmt.Errorf("failed to list collections: %w", err))
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// SchemeConnector routes connection attempts to a driver based on the URI scheme.
type SchemeConnector struct {
	connectors map[string]Connector
}

// NewSchemeConnector creates a connector that knows the Mongo and Postgres schemes.
func NewSchemeConnector() *SchemeConnector {
	s := &SchemeConnector{connectors: make(map[string]Connector)}

	mongoConnector := NewMongoConnector()
	s.Register("mongodb", mongoConnector)
	s.Register("mongodb+srv", mongoConnector)

	postgresConnector := NewPostgresConnector()
	s.Register("postgres", postgresConnector)
	s.Register("postgresql", postgresConnector)

	return s
}

// Register routes URIs with the given scheme to c.
func (s *SchemeConnector) Register(scheme string, c Connector) {
	s.connectors[strings.ToLower(scheme)] = c
}

// Connect dispatches to the connector registered for the URI scheme.
func (s *SchemeConnector) Connect(ctx context.Context, opts ConnectOptions) (Connection, error) {
	scheme := uriScheme(opts.URI)
	if scheme == "" {
		return nil, fmt.Errorf("connection URI has no scheme")
	}

	c, ok := s.connectors[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported connection scheme: %s", scheme)
	}

	return c.Connect(ctx, opts)
}

// uriScheme extracts the scheme by hand: multi-host Mongo URIs such as
// mongodb://a:27017,b:27017/db are rejected by net/url.
func uriScheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(uri[:i])
}
