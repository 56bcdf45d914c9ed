package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// exerciseCollection runs the behaviour every Database implementation must
// share against the collection named name.
func exerciseCollection(t *testing.T, db Database, name string) {
	t.Helper()
	ctx := context.Background()
	coll := db.Collection(name)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	var ids []primitive.ObjectID
	for i, kind := range []string{"shirt", "pants", "shirt"} {
		id, err := coll.InsertOne(ctx, bson.M{
			"type":       kind,
			"rank":       i,
			"created_at": base.Add(time.Duration(i) * time.Hour),
			"color":      nil,
		})
		if err != nil {
			t.Fatalf("InsertOne: %v", err)
		}
		if id.IsZero() {
			t.Fatal("InsertOne returned a zero id")
		}
		ids = append(ids, id)
	}

	shirts, err := coll.Find(ctx, bson.M{"type": "shirt"}, NewestFirst)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(shirts) != 2 {
		t.Fatalf("Find returned %d shirts, want 2", len(shirts))
	}
	if shirts[0]["_id"] != ids[2] || shirts[1]["_id"] != ids[0] {
		t.Errorf("Find order = [%v %v], want newest first", shirts[0]["_id"], shirts[1]["_id"])
	}

	all, err := coll.Find(ctx, nil, NewestFirst)
	if err != nil {
		t.Fatalf("Find all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Find all returned %d, want 3", len(all))
	}

	doc, err := coll.FindOne(ctx, bson.M{"_id": ids[1]})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if doc["type"] != "pants" {
		t.Errorf("type = %v, want pants", doc["type"])
	}
	if _, ok := doc["created_at"].(primitive.DateTime); !ok {
		t.Errorf("created_at = %T, want primitive.DateTime", doc["created_at"])
	}

	if _, err := coll.FindOne(ctx, bson.M{"_id": primitive.NewObjectID()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindOne missing err = %v, want ErrNotFound", err)
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": ids[1]}, bson.M{"color": "navy"})
	if err != nil {
		t.Fatalf("UpdateOne: %v", err)
	}
	if res.Matched != 1 || res.Modified != 1 {
		t.Errorf("UpdateOne = %+v, want 1 matched 1 modified", res)
	}
	res, err = coll.UpdateOne(ctx, bson.M{"_id": ids[1]}, bson.M{"color": "navy"})
	if err != nil {
		t.Fatalf("UpdateOne repeat: %v", err)
	}
	if res.Matched != 1 || res.Modified != 0 {
		t.Errorf("repeated UpdateOne = %+v, want 1 matched 0 modified", res)
	}
	res, err = coll.UpdateOne(ctx, bson.M{"_id": primitive.NewObjectID()}, bson.M{"color": "red"})
	if err != nil {
		t.Fatalf("UpdateOne missing: %v", err)
	}
	if res.Matched != 0 {
		t.Errorf("UpdateOne missing matched %d", res.Matched)
	}

	n, err := coll.CountDocuments(ctx, bson.M{"type": "shirt"})
	if err != nil || n != 2 {
		t.Errorf("CountDocuments = %d, %v; want 2", n, err)
	}

	deleted, err := coll.DeleteOne(ctx, bson.M{"_id": ids[0]})
	if err != nil || deleted != 1 {
		t.Errorf("DeleteOne = %d, %v; want 1", deleted, err)
	}
	deleted, err = coll.DeleteOne(ctx, bson.M{"_id": ids[0]})
	if err != nil || deleted != 0 {
		t.Errorf("second DeleteOne = %d, %v; want 0", deleted, err)
	}
}

func TestMemoryCollection(t *testing.T) {
	exerciseCollection(t, NewMemory(), "garments")
}

func TestMemoryNullFilterMatchesMissingKey(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("things")
	if _, err := coll.InsertOne(ctx, bson.M{"name": "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := coll.FindOne(ctx, bson.M{"color": nil}); err != nil {
		t.Errorf("FindOne(color: null) err = %v", err)
	}
}

func TestMemoryUpdateIgnoresEmbeddedKeyOrder(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("outfits")
	id, err := coll.InsertOne(ctx, bson.M{"shirt": bson.D{{Key: "a", Value: 1}, {Key: "b", Value: "x"}}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"shirt": bson.M{"b": "x", "a": 1}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Modified != 0 {
		t.Errorf("Modified = %d, want 0 for an identical embedded document", res.Modified)
	}
}

func TestMemoryRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection("users")
	id := primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, bson.M{"_id": id}); err != nil {
		t.Fatal(err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"_id": id}); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("err = %v, want ErrOperationFailed", err)
	}
}

func TestMemorySetFailure(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()
	coll := db.Collection("garments")
	db.SetFailure(errors.New("connection reset"))

	if _, err := coll.InsertOne(ctx, bson.M{}); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("InsertOne err = %v, want ErrOperationFailed", err)
	}
	if _, err := coll.Find(ctx, nil, nil); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("Find err = %v, want ErrOperationFailed", err)
	}

	db.SetFailure(nil)
	if _, err := coll.InsertOne(ctx, bson.M{}); err != nil {
		t.Errorf("InsertOne after reset: %v", err)
	}
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Collection("x").FindOne(ctx, bson.M{})
	if !errors.Is(err, ErrOperationFailed) {
		t.Errorf("err = %v, want ErrOperationFailed", err)
	}
}

type sample struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	When time.Time          `bson:"when"`
}

func TestDocumentConversion(t *testing.T) {
	in := sample{ID: primitive.NewObjectID(), Name: "n", When: time.Date(2025, 2, 3, 4, 5, 6, 7_000_000, time.UTC)}
	doc, err := ToDocument(in)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	if doc["name"] != "n" {
		t.Errorf("name = %v", doc["name"])
	}
	var out sample
	if err := FromDocument(doc, &out); err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if out.ID != in.ID || out.Name != in.Name || !out.When.Equal(in.When) {
		t.Errorf("FromDocument = %+v, want %+v", out, in)
	}
}
