package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// defaultMongoDatabase is used when the URI names no database.
const defaultMongoDatabase = "test"

// MongoConnector connects to MongoDB.
type MongoConnector struct{}

// NewMongoConnector creates a new Mongo connector.
func NewMongoConnector() *MongoConnector {
	return &MongoConnector{}
}

// Connect opens a client and pings the primary so that unreachable servers and
// bad credentials fail here rather than on first use.
func (m *MongoConnector) Connect(ctx context.Context, opts ConnectOptions) (Connection, error) {
	client, err := mongo.Connect(ctx, mongoClientOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &mongoConnection{
		client: client,
		db:     client.Database(mongoDatabaseName(opts.URI)),
	}, nil
}

// mongoClientOptions applies the URI and, when present, overrides its
// username and password while keeping auth source and mechanism.
func mongoClientOptions(opts ConnectOptions) *options.ClientOptions {
	clientOpts := options.Client().ApplyURI(opts.URI)

	if opts.Auth != nil {
		cred := options.Credential{}
		if clientOpts.Auth != nil {
			cred = *clientOpts.Auth
		}
		cred.Username = opts.Auth.Username
		cred.Password = opts.Auth.Password
		cred.PasswordSet = true
		clientOpts.SetAuth(cred)
	}

	return clientOpts
}

func mongoDatabaseName(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return defaultMongoDatabase
	}
	return cs.Database
}

type mongoConnection struct {
	client *mongo.Client
	db     *mongo.Database
}

func (c *mongoConnection) Driver() string   { return DriverMongo }
func (c *mongoConnection) Database() string { return c.db.Name() }

func (c *mongoConnection) ListCollectionNames(ctx context.Context) ([]string, error) {
	return c.db.ListCollectionNames(ctx, bson.D{})
}

func (c *mongoConnection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
