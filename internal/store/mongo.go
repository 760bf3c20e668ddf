package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"taskman/internal/task"
)

// MongoStore persists tasks in a MongoDB collection. One client is
// opened at process start and reused for every operation.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to MongoDB, verifies the connection, and ensures the
// collection indexes.
func Open(ctx context.Context, uri, database, collection string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &ConnectionError{Op: "connect", Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &ConnectionError{Op: "ping", Err: err}
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the task_id uniqueness index and the secondary
// indexes used by filtering.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
	})
	if err != nil {
		return &ConnectionError{Op: "create indexes", Err: err}
	}
	return nil
}

// Insert writes a new task document.
func (s *MongoStore) Insert(ctx context.Context, t *task.Task) error {
	_, err := s.coll.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return &ConnectionError{Op: "insert", Err: err}
	}
	return nil
}

// FindByID returns the task with the given identifier.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	err := s.coll.FindOne(ctx, bson.M{"task_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, &ConnectionError{Op: "find", Err: err}
	}
	return &t, nil
}

// FindAll returns tasks matching the filter, ordered by created_at
// ascending.
func (s *MongoStore) FindAll(ctx context.Context, f Filter) ([]task.Task, error) {
	query, err := filterQuery(f, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, &ConnectionError{Op: "find", Err: err}
	}
	defer cur.Close(ctx)

	var tasks []task.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, &ConnectionError{Op: "decode", Err: err}
	}
	return tasks, nil
}

// Update applies the non-nil fields of u to a task document.
func (s *MongoStore) Update(ctx context.Context, id string, u task.Update) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"task_id": id}, updateDocument(u))
	if err != nil {
		return &ConnectionError{Op: "update", Err: err}
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"task_id": id})
	if err != nil {
		return &ConnectionError{Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the connection to the server.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &ConnectionError{Op: "ping", Err: err}
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Count returns the number of task documents in the collection.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, &ConnectionError{Op: "count", Err: err}
	}
	return n, nil
}

// IndexNames lists the names of the collection's indexes.
func (s *MongoStore) IndexNames(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Indexes().List(ctx)
	if err != nil {
		return nil, &ConnectionError{Op: "list indexes", Err: err}
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			return nil, &ConnectionError{Op: "decode index", Err: err}
		}
		if name, ok := idx["name"].(string); ok {
			names = append(names, name)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, &ConnectionError{Op: "list indexes", Err: err}
	}
	return names, nil
}
