package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
)

func TestFileMetadata(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(store.NewMemory())

	older := &models.File{Filename: "a.glb", Filepath: "uploads/u1/a.glb", UserID: "u1", UploadedAt: time.Now().Add(-time.Hour)}
	newer := &models.File{Filename: "b.gltf", Filepath: "uploads/u1/b.gltf", UserID: "u1"}
	for _, f := range []*models.File{older, newer} {
		if _, err := repo.Create(ctx, f); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if older.Category != models.FileCategoryUpload {
		t.Errorf("category = %q, want %q", older.Category, models.FileCategoryUpload)
	}

	files, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 || files[0].ID != newer.ID {
		t.Errorf("List = %+v, want newest upload first", files)
	}

	got, err := repo.Get(ctx, older.ID.Hex())
	if err != nil || got.Filepath != older.Filepath {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	deleted, err := repo.Delete(ctx, older.ID.Hex())
	if err != nil || !deleted {
		t.Errorf("Delete = %v, %v", deleted, err)
	}
}

func TestRegisterDefaultsRunsOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(store.NewMemory())
	objects := []models.StoredObject{
		{Key: "default/hats/cap.glb", Size: 10},
		{Key: "default/shirts/tee.GLTF", Size: 20},
		{Key: "default/readme.txt", Size: 1},
	}

	added, err := repo.RegisterDefaults(ctx, objects)
	if err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	files, _ := repo.List(ctx)
	for _, f := range files {
		if f.UserID != models.SystemUserID || f.Category != models.FileCategoryDefault {
			t.Errorf("default file = %+v", f)
		}
		if f.Filename == "tee.GLTF" && f.ContentType != "model/gltf+json" {
			t.Errorf("gltf content type = %q", f.ContentType)
		}
	}

	added, err = repo.RegisterDefaults(ctx, objects)
	if err != nil || added != 0 {
		t.Errorf("second RegisterDefaults = %d, %v; want 0", added, err)
	}
}

func TestRetextureJobRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewRetextureJobRepository(store.NewMemory())
	job := &models.RetextureJob{
		Request:    models.RetextureRequest{ModelURL: "https://cdn/x.glb", TextStylePrompt: "denim", EnableOriginalUV: true, EnablePBR: true},
		Response:   map[string]interface{}{"result": "018a210d"},
		StatusCode: 202,
	}
	id, err := repo.Record(ctx, job)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.StatusCode != 202 || got.Request.TextStylePrompt != "denim" || got.Response["result"] != "018a210d" {
		t.Errorf("job = %+v", got)
	}
}
