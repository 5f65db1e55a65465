// Package store persists a history of analysis runs — protocol hash, role,
// subscription/check outcome, timestamp — to MongoDB, giving the
// "swarmcheck history" CLI command and the "GET /runs" HTTP endpoint
// something durable to read. It implements
// [github.com/matzehuels/swarmcheck/pkg/api.RunStore]; nothing about the
// protocols themselves (their semantics, their execution) is persisted,
// only run metadata.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/swarmcheck/pkg/api"
)

// Store persists [api.RunRecord]s to a MongoDB collection.
type Store struct {
	collection *mongo.Collection
}

// Config configures a MongoDB connection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// defaultCollection is used when Config.Collection is empty.
const defaultCollection = "runs"

// New dials uri and returns a Store backed by database.collection. It pings
// the server once to fail fast, the same connect-then-verify shape
// [github.com/matzehuels/swarmcheck/pkg/runcache.New] uses for Redis.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}
	return &Store{collection: client.Database(cfg.Database).Collection(collection)}, nil
}

// Save upserts rec by ID, so re-running the same call (e.g. a cache-hit
// replay) overwrites rather than duplicates the run history entry.
func (s *Store) Save(ctx context.Context, rec api.RunRecord) error {
	filter := bson.M{"_id": rec.ID}
	update := bson.M{"$set": rec}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	return err
}

// Recent returns the most recently created run records, newest first,
// limited to n entries — the query backing both the CLI "history" command
// and the HTTP "GET /runs" endpoint.
func (s *Store) Recent(ctx context.Context, n int64) ([]api.RunRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(n)
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []api.RunRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByRole returns the most recent run records for a given role, newest
// first, limited to n entries.
func (s *Store) ByRole(ctx context.Context, role string, n int64) ([]api.RunRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(n)
	cursor, err := s.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []api.RunRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.collection.Database().Client().Disconnect(ctx)
}

// Ensure Store implements api.RunStore.
var _ api.RunStore = (*Store)(nil)

// pingTimeout bounds the initial connectivity check in [New].
const pingTimeout = 5 * time.Second
