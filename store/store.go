// Package store is the document-store boundary. Repositories talk to a
// Database; the Mongo implementation wraps the driver and the memory
// implementation backs unit tests.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned by FindOne when nothing matches.
	ErrNotFound = errors.New("document not found")
	// ErrOperationFailed wraps every driver or connectivity failure.
	ErrOperationFailed = errors.New("storage operation failed")
)

// UpdateResult reports how many documents a $set matched and changed.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Collection is the subset of a document collection the repositories use.
type Collection interface {
	InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	Find(ctx context.Context, filter bson.M, sort bson.D) ([]bson.M, error)
	UpdateOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
}

// Collection names.
const (
	Garments  = "garments"
	Outfits   = "outfits"
	Users     = "users"
	Follows   = "follows"
	Files     = "files"
	MeshyJobs = "meshy_jobs"
)

// NewestFirst sorts by created_at descending.
var NewestFirst = bson.D{{Key: "created_at", Value: -1}}

// ToDocument converts a bson-tagged struct into a document.
func ToDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FromDocument decodes doc into the bson-tagged struct pointed to by out.
func FromDocument(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
