// Package mongodb provides the MongoDB implementations of the store
// interfaces, plus connection and index bootstrap helpers.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the stores.
const (
	TaskCollection = "tasks"
	UserCollection = "users"
)

// Connect establishes a client connection to the given MongoDB URI and
// verifies it with a ping. The caller owns the returned client and must
// disconnect it on shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		// Raw reads decode nested documents as bson.M instead of bson.D so
		// they JSON-encode as objects.
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes the stores rely on. It is idempotent and
// safe to run on every startup.
//
// The unique index on users.email is what turns a duplicate registration
// into a write conflict the store can map to ErrEmailExists; emails are
// normalized to lower case before writes, making uniqueness case-insensitive.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique email index: %w", err)
	}
	return nil
}
