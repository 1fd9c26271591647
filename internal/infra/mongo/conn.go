package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const connectTimeout = 10 * time.Second

// Conn owns a single MongoDB client. The zero value is not usable; call NewConn.
type Conn struct {
	uri      string
	database string

	mu     sync.Mutex
	client *mongodriver.Client
}

// NewConn prepares a connection to uri. The database is taken from the URI path
// when present, otherwise fallbackDB.
func NewConn(uri, fallbackDB string) *Conn {
	return &Conn{uri: uri, database: DatabaseName(uri, fallbackDB)}
}

// DatabaseName extracts the database from a connection string.
func DatabaseName(uri, fallback string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err == nil && cs.Database != "" {
		return cs.Database
	}
	return fallback
}

// Connect dials and pings the server once. Later calls return the same database.
func (c *Conn) Connect(ctx context.Context) (*mongodriver.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client.Database(c.database), nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(c.uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	c.client = client
	return client.Database(c.database), nil
}

// Disconnect closes the client. Calling it on a closed Conn is a no-op.
func (c *Conn) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}

// Database reports the database name the connection targets.
func (c *Conn) Database() string {
	return c.database
}

// WithConn connects, runs fn and always disconnects.
func WithConn(ctx context.Context, uri, fallbackDB string, fn func(context.Context, *mongodriver.Database) error) error {
	conn := NewConn(uri, fallbackDB)
	db, err := conn.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Disconnect(context.Background())
	return fn(ctx, db)
}
