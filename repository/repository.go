// Package repository holds the persistence services. Every call runs
// against a store.Database under its own timeout, and storage failures
// surface only as the sentinel errors declared here.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound means no document matched, including identifiers that are
	// not valid ObjectIDs.
	ErrNotFound = store.ErrNotFound
	// ErrOperationFailed means the store could not complete the call.
	ErrOperationFailed = store.ErrOperationFailed
	// ErrMalformedRecord means a stored document no longer decodes.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrConflict means the write would duplicate a unique value.
	ErrConflict = errors.New("already exists")
)

const opTimeout = 10 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return oid, nil
}

func byID(oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid}
}

func malformed(doc bson.M, err error) error {
	return fmt.Errorf("%w: %v: %v", ErrMalformedRecord, doc["_id"], err)
}

// findEntity loads one bson-tagged entity by id.
func findEntity(ctx context.Context, coll store.Collection, id string, out interface{}) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc, err := coll.FindOne(ctx, byID(oid))
	if err != nil {
		return err
	}
	if err := store.FromDocument(doc, out); err != nil {
		return malformed(doc, err)
	}
	return nil
}

// deleteByID removes one document and reports whether it existed.
func deleteByID(ctx context.Context, coll store.Collection, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := coll.DeleteOne(ctx, byID(oid))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
