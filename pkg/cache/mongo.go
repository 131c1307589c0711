package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Defaults for the MongoDB backend.
const (
	DefaultMongoDatabase   = "smilesdraw"
	DefaultMongoCollection = "cache"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri" json:"-"`
	Database   string `toml:"database" json:"database"`
	Collection string `toml:"collection" json:"collection"`
}

// MongoCache stores entries as documents keyed by _id. A TTL index on
// expires_at lets the server drop expired entries; reads also check the
// expiry since the TTL monitor only runs once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects, pings the primary and ensures the TTL index.
func NewMongoCache(ctx context.Context, cfg MongoConfig) (*MongoCache, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	err = RetryWithBackoff(ctx, func() error {
		return classify(client.Ping(ctx, readpref.Primary()))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoCache{client: client, coll: coll}, nil
}

// Get retrieves a value.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", classify(err))
	}
	if expired(e.ExpiresAt, time.Now()) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set upserts a value.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, newMongoEntry(key, data, ttl, time.Now()),
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", classify(err))
	}
	return nil
}

// Delete removes a value.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", classify(err))
	}
	return nil
}

// Clear deletes every document in the collection.
func (c *MongoCache) Clear(ctx context.Context) error {
	if _, err := c.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("mongo delete: %w", classify(err))
	}
	return nil
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func newMongoEntry(key string, data []byte, ttl time.Duration, now time.Time) mongoEntry {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := now.Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	return e
}

func expired(at *time.Time, now time.Time) bool {
	return at != nil && now.After(*at)
}

var (
	_ Cache   = (*MongoCache)(nil)
	_ Clearer = (*MongoCache)(nil)
)
