package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

// CollectionName holds one document per key: {_id: key, value: "..."}.
const CollectionName = "kv_entries"

type entry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Store is a MongoDB implementation of kvstore.Store.
// Apply runs inside a multi-document transaction, which needs a replica set
// (a single-node replica set is enough).
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri, pings the primary and binds to database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" || database == "" {
		return nil, errors.New("mongo uri and database are required")
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewStore(client, database), nil
}

func NewStore(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
	}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func byKey(key string) bson.D {
	return bson.D{{Key: "_id", Value: key}}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e entry
	if err := s.coll.FindOne(ctx, byKey(key)).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, []kvstore.Mutation{kvstore.Set(key, value)})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.Apply(ctx, []kvstore.Mutation{kvstore.Remove(key)})
}

func (s *Store) Apply(ctx context.Context, muts []kvstore.Mutation) error {
	if len(muts) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(muts))
	for _, m := range muts {
		if m.Delete {
			models = append(models, mongo.NewDeleteOneModel().SetFilter(byKey(m.Key)))
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(byKey(m.Key)).
			SetReplacement(entry{Key: m.Key, Value: m.Value}).
			SetUpsert(true))
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)
	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	})
	return err
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var entries []entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Key)
	}
	return names, nil
}
