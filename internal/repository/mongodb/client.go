// Package mongodb implements the stores on top of MongoDB. Identifiers are
// kept as canonical UUID strings so documents stay readable in the shell.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
)

// Client owns the driver connection and the application database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects, verifies the server is reachable and creates indexes.
func NewClient(ctx context.Context, uri, database string) (*Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	c := &Client{
		client: client,
		db:     client.Database(database),
	}

	if err := c.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return c, nil
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = c.db.Collection(postsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sender", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}

	_, err = c.db.Collection(commentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}}},
		{Keys: bson.D{{Key: "sender", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comments indexes: %w", err)
	}

	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

var sortByCreation = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// decodeAll drains a find cursor through conv.
func decodeAll[D any, T any](ctx context.Context, cursor *mongo.Cursor, conv func(D) (T, error)) ([]T, error) {
	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := conv(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
