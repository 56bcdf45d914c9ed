package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMongoCollectionIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("set TEST_MONGO_URI to run MongoDB integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := "cfg_it_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := ConnectMongo(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("ConnectMongo: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = db.Disconnect(context.Background())
	})

	exerciseCollection(t, db, Garments)
}
