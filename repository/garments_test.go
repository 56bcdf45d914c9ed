package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"go.mongodb.org/mongo-driver/bson"
)

func newGarmentRepo(t *testing.T) (*GarmentRepository, *store.Memory) {
	t.Helper()
	db := store.NewMemory()
	return NewGarmentRepository(db, logger.Nop()), db
}

func createGarment(t *testing.T, repo *GarmentRepository, rec bson.M) (string, models.Garment) {
	t.Helper()
	g, err := models.Decode(rec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	id, err := repo.Create(context.Background(), g)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return id, g
}

func TestGarmentCreateStoresDefaultedRecord(t *testing.T) {
	repo, db := newGarmentRepo(t)
	ctx := context.Background()

	id, g := createGarment(t, repo, bson.M{"type": "shirt", "name": "Tee", "created_by": "u1", "gender": "unisex"})
	if g.Common().ID.Hex() != id {
		t.Errorf("Create did not set the id on the garment")
	}

	doc, err := db.Collection(store.Garments).FindOne(ctx, bson.M{"_id": g.Common().ID})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	want := bson.M{"type": "shirt", "sleeve_type": "short", "pattern": "solid", "color": nil, "name": "Tee"}
	for k, v := range want {
		got, ok := doc[k]
		if !ok || got != v {
			t.Errorf("stored %s = %v (present %v), want %v", k, got, ok, v)
		}
	}

	shirts, err := repo.ListByType(ctx, "shirt", "")
	if err != nil {
		t.Fatalf("ListByType(shirt): %v", err)
	}
	if len(shirts) != 1 || shirts[0].Common().ID.Hex() != id {
		t.Errorf("ListByType(shirt) = %v, want the Tee", shirts)
	}
	pants, err := repo.ListByType(ctx, "pants", "")
	if err != nil {
		t.Fatalf("ListByType(pants): %v", err)
	}
	if len(pants) != 0 {
		t.Errorf("ListByType(pants) returned %d garments, want 0", len(pants))
	}
}

func TestGarmentGetNotFound(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	for _, id := range []string{"65f0c0ffee0000000000beef", "not-an-object-id", ""} {
		g, err := repo.Get(context.Background(), id)
		if g != nil {
			t.Errorf("Get(%q) returned %v", id, g)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestGarmentGetMalformedRecord(t *testing.T) {
	repo, db := newGarmentRepo(t)
	ctx := context.Background()
	oid, err := db.Collection(store.Garments).InsertOne(ctx, bson.M{"type": "scarf", "created_by": "u1"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.Get(ctx, oid.Hex())
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("malformed record must not look like not-found")
	}

	if _, err := repo.Search(ctx, nil); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("Search err = %v, want ErrMalformedRecord", err)
	}
}

func TestGarmentListsNewestFirst(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i, rec := range []bson.M{
		{"type": "hat", "created_by": "u1", "gender": "female"},
		{"type": "hat", "created_by": "u2", "gender": "male"},
		{"type": "shoes", "created_by": "u1"},
		{"type": "hat", "created_by": "u1", "gender": "female"},
	} {
		rec["created_at"] = base.Add(time.Duration(i) * time.Minute)
		id, _ := createGarment(t, repo, rec)
		ids = append(ids, id)
	}

	tests := []struct {
		name string
		list func() ([]models.Garment, error)
		want []string
	}{
		{"all", func() ([]models.Garment, error) { return repo.Search(ctx, nil) }, []string{ids[3], ids[2], ids[1], ids[0]}},
		{"hats", func() ([]models.Garment, error) { return repo.ListByType(ctx, "hat", "") }, []string{ids[3], ids[1], ids[0]}},
		{"female hats", func() ([]models.Garment, error) { return repo.ListByType(ctx, "hat", "female") }, []string{ids[3], ids[0]}},
		{"by creator", func() ([]models.Garment, error) { return repo.ListByCreator(ctx, "u1") }, []string{ids[3], ids[2], ids[0]}},
		{"by unknown creator", func() ([]models.Garment, error) { return repo.ListByCreator(ctx, "nobody") }, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.list()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d garments, want %d", len(got), len(tc.want))
			}
			for i, g := range got {
				if g.Common().ID.Hex() != tc.want[i] {
					t.Errorf("position %d = %s, want %s", i, g.Common().ID.Hex(), tc.want[i])
				}
			}
		})
	}
}

func TestGarmentListByTypeValidation(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()

	if _, err := repo.ListByType(ctx, "scarf", ""); !errors.Is(err, models.ErrUnknownGarmentType) {
		t.Errorf("unknown type err = %v, want ErrUnknownGarmentType", err)
	}
	if _, err := repo.ListByType(ctx, "hat", "robot"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad gender err = %v, want validation error", err)
	}
}

func TestGarmentUpdateNeverChangesTypeOrID(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()
	id, g := createGarment(t, repo, bson.M{"type": "shirt", "name": "Tee", "created_by": "u1"})

	modified, err := repo.Update(ctx, id, map[string]interface{}{
		"type":       "pants",
		"_id":        "65f0c0ffee0000000000beef",
		"id":         "65f0c0ffee0000000000beef",
		"created_by": "intruder",
		"created_at": "2001-01-01T00:00:00Z",
		"fit":        "slim",
		"color":      "red",
		"name":       "Red Tee",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !modified {
		t.Error("Update reported no modification")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	shirt, ok := got.(*models.Shirt)
	if !ok {
		t.Fatalf("Get returned %T, want *models.Shirt", got)
	}
	if shirt.ID != g.Common().ID || shirt.CreatedBy != "u1" || !shirt.CreatedAt.Equal(g.Common().CreatedAt) {
		t.Errorf("protected fields changed: %+v", shirt.Base)
	}
	if shirt.Name != "Red Tee" || shirt.Color == nil || *shirt.Color != "red" {
		t.Errorf("allowed fields not applied: name=%q color=%v", shirt.Name, shirt.Color)
	}
	if _, leaked := models.Encode(shirt)["fit"]; leaked {
		t.Error("pants attribute leaked into the shirt record")
	}
}

func TestGarmentUpdateValidation(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()
	id, _ := createGarment(t, repo, bson.M{"type": "hat", "created_by": "u1"})

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{"only protected keys", map[string]interface{}{"type": "shoes", "created_by": "u2"}},
		{"empty", map[string]interface{}{}},
		{"numeric name", map[string]interface{}{"name": 4}},
		{"null name", map[string]interface{}{"name": nil}},
		{"empty material", map[string]interface{}{"material": ""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Update(ctx, id, tc.fields)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestGarmentUpdateNullableAndNoop(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()
	id, _ := createGarment(t, repo, bson.M{"type": "pants", "created_by": "u1", "color": "black", "reference": "a.glb"})

	modified, err := repo.Update(ctx, id, map[string]interface{}{"color": nil, "reference": nil})
	if err != nil || !modified {
		t.Fatalf("Update = %v, %v; want modified", modified, err)
	}
	got, _ := repo.Get(ctx, id)
	if got.(*models.Pants).Color != nil || got.Common().Reference != nil {
		t.Errorf("nullable fields not cleared: %+v", got)
	}

	modified, err = repo.Update(ctx, id, map[string]interface{}{"fit": "regular"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if modified {
		t.Error("setting the current value reported a modification")
	}
}

func TestGarmentUpdateAndDeleteMissing(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()

	if _, err := repo.Update(ctx, "65f0c0ffee0000000000beef", map[string]interface{}{"name": "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
	deleted, err := repo.Delete(ctx, "65f0c0ffee0000000000beef")
	if err != nil || deleted {
		t.Errorf("Delete = %v, %v; want false, nil", deleted, err)
	}
	deleted, err = repo.Delete(ctx, "bogus")
	if err != nil || deleted {
		t.Errorf("Delete(bogus) = %v, %v; want false, nil", deleted, err)
	}
}

func TestGarmentDelete(t *testing.T) {
	repo, _ := newGarmentRepo(t)
	ctx := context.Background()
	id, _ := createGarment(t, repo, bson.M{"type": "shoes", "created_by": "u1"})

	deleted, err := repo.Delete(ctx, id)
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v; want true", deleted, err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestGarmentStorageFailure(t *testing.T) {
	repo, db := newGarmentRepo(t)
	ctx := context.Background()
	id, _ := createGarment(t, repo, bson.M{"type": "shoes", "created_by": "u1"})
	db.SetFailure(errors.New("server selection timeout"))

	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("Get err = %v, want ErrOperationFailed", err)
	}
	if _, err := repo.ListByCreator(ctx, "u1"); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("ListByCreator err = %v, want ErrOperationFailed", err)
	}
	g, _ := models.NewHat(models.Hat{Base: models.Base{CreatedBy: "u1"}})
	if _, err := repo.Create(ctx, g); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("Create err = %v, want ErrOperationFailed", err)
	}
}
