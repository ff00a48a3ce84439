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

	"github.com/shelterhq/refuge/data"
)

// Connect opens a MongoDB database handle and verifies connectivity.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(), error) {
	if uri == "" {
		return nil, nil, errors.New("mongodb uri is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongodb ping error: %w", err)
	}

	cleanup := func() { _ = client.Disconnect(context.Background()) }
	return client.Database(database), cleanup, nil
}

// Store is a MongoDB-backed record store for one entity collection. It
// decodes documents into the concrete record type via the injected
// constructor.
type Store struct {
	coll      *mongo.Collection
	newRecord func() data.Record
}

// NewStore creates a record store over the named collection.
func NewStore(db *mongo.Database, collection string, newRecord func() data.Record) *Store {
	return &Store{
		coll:      db.Collection(collection),
		newRecord: newRecord,
	}
}

func (s *Store) Get(ctx context.Context, id string) (data.Record, error) {
	rec := s.newRecord()
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, data.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb get error: %w", err)
	}
	return rec, nil
}

func (s *Store) Put(ctx context.Context, record data.Record) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": record.ObjectID()}, record, opts)
	if err != nil {
		return fmt.Errorf("mongodb put error: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (data.Record, error) {
	if len(fields) > 0 {
		res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
		if err != nil {
			return nil, fmt.Errorf("mongodb update error: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, data.ErrNotFound
		}
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	if res.DeletedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, opts data.ListOptions) ([]data.Record, error) {
	filter := bson.M{}
	for k, v := range opts.Filter {
		filter[k] = v
	}

	findOpts := options.Find()
	if opts.SortField != "" {
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: 1}, {Key: "_id", Value: 1}})
	} else {
		findOpts.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongodb list error: %w", err)
	}
	defer cursor.Close(ctx)

	var records []data.Record
	for cursor.Next(ctx) {
		rec := s.newRecord()
		if err := cursor.Decode(rec); err != nil {
			return nil, fmt.Errorf("mongodb decode error: %w", err)
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongodb cursor error: %w", err)
	}
	return records, nil
}
