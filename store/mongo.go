package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a Database backed by a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(ctx context.Context, uri, databaseName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Mongo{client: client, db: client.Database(databaseName)}, nil
}

// Disconnect closes the underlying client.
func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by integration tests.
func (m *Mongo) Drop(ctx context.Context) error {
	return m.db.Drop(ctx)
}

// Collection returns a handle to a MongoDB collection
func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func failed(op string, err error) error {
	return fmt.Errorf("%w: %s %v", ErrOperationFailed, op, err)
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, failed("insert", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: unexpected inserted id %T", ErrOperationFailed, res.InsertedID)
	}
	return id, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, failed("find", err)
	}
	return doc, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, sort bson.D) ([]bson.M, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, failed("find", err)
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, failed("decode", err)
	}
	return docs, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return UpdateResult{}, failed("update", err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, failed("delete", err)
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, failed("count", err)
	}
	return n, nil
}
