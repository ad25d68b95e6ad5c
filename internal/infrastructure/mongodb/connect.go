package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/oksasatya/business-card-api/internal/domain/repository"
)

// Options selects one of the interchangeable deployments (local or atlas);
// only the URI differs between them.
type Options struct {
	Target         string
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Database is the process-wide store handle. It is created once at boot and
// injected into repositories.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
	Target string
}

// Connect dials MongoDB and verifies the deployment answers a ping.
func Connect(ctx context.Context, opts Options) (*Database, error) {
	if opts.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to %s mongodb: %w", opts.Target, err)
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping %s mongodb: %w", opts.Target, err)
	}
	return &Database{Client: client, DB: client.Database(opts.Database), Target: opts.Target}, nil
}

// EnsureIndexes creates the unique email index the store relies on for
// duplicate detection.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	if d == nil {
		return repository.ErrUnavailable
	}
	_, err := d.DB.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	return err
}

// Ping reports whether the database is reachable; a nil handle is never reachable.
func (d *Database) Ping(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return repository.ErrUnavailable
	}
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.Client.Ping(c, readpref.Primary())
}

func (d *Database) Close(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Disconnect(ctx)
}

func (d *Database) collection(name string) *mongo.Collection {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Collection(name)
}
