// Package mongo loads node collections from a MongoDB collection.
//
// Documents use the same field names as the JSON node format:
//
//	{ "id": 2, "parent_id": 1, "path": "/shop", "name": "Shop", "meta": {...} }
//
// Documents are returned in _id order, which for driver-generated
// ObjectIDs is insertion order.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// Filter is an optional Extended JSON query document, for example
	// {"site": "shop"}.
	Filter string `toml:"filter"`
}

// DefaultCollection is read when Config.Collection is empty.
const DefaultCollection = "nodes"

// Source is a source.Source backed by a MongoDB collection.
type Source[PK comparable] struct {
	client *mongo.Client
	coll   *mongo.Collection
	filter bson.D
	raw    string
	owned  bool
}

// Connect dials cfg.URI and returns a source that owns the client.
func Connect[PK comparable](ctx context.Context, cfg Config) (*Source[PK], error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo database is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	s, err := New[PK](client, cfg)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New uses an existing client. Close does not disconnect it.
func New[PK comparable](client *mongo.Client, cfg Config) (*Source[PK], error) {
	coll := cfg.Collection
	if coll == "" {
		coll = DefaultCollection
	}

	filter := bson.D{}
	if cfg.Filter != "" {
		if err := bson.UnmarshalExtJSON([]byte(cfg.Filter), false, &filter); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse mongo filter")
		}
	}

	return &Source[PK]{
		client: client,
		coll:   client.Database(cfg.Database).Collection(coll),
		filter: filter,
		raw:    cfg.Filter,
	}, nil
}

// Collection returns the underlying collection.
func (s *Source[PK]) Collection() *mongo.Collection { return s.coll }

// Name implements source.Source.
func (s *Source[PK]) Name() string {
	return "mongo:" + s.coll.Database().Name() + "." + s.coll.Name()
}

// Selector returns the filter as configured, for use in cache keys.
func (s *Source[PK]) Selector() string { return s.raw }

// Load implements source.Source.
func (s *Source[PK]) Load(ctx context.Context) ([]breadcrumb.Node[PK], error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, s.filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.Name(), err)
	}

	var nodes []breadcrumb.Node[PK]
	if err := cur.All(ctx, &nodes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Name(), err)
	}
	return nodes, nil
}

// Insert appends nodes to the collection.
func (s *Source[PK]) Insert(ctx context.Context, nodes []breadcrumb.Node[PK]) error {
	if len(nodes) == 0 {
		return nil
	}
	docs := make([]any, len(nodes))
	for i, n := range nodes {
		docs[i] = n
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert into %s: %w", s.Name(), err)
	}
	return nil
}

// Close disconnects the client if the source created it.
func (s *Source[PK]) Close(ctx context.Context) error {
	if s.owned {
		return s.client.Disconnect(ctx)
	}
	return nil
}

var _ source.Source[source.ID] = (*Source[source.ID])(nil)
