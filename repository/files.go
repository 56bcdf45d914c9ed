package repository

import (
	"context"
	"path"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// FileRepository keeps metadata for 3D assets held in object storage.
type FileRepository struct {
	coll store.Collection
}

func NewFileRepository(db store.Database) *FileRepository {
	return &FileRepository{coll: db.Collection(store.Files)}
}

var newestUpload = bson.D{{Key: "uploaded_at", Value: -1}}

func (r *FileRepository) Create(ctx context.Context, f *models.File) (string, error) {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	f.UploadedAt = f.UploadedAt.UTC().Truncate(time.Millisecond)
	if f.Category == "" {
		f.Category = models.FileCategoryUpload
	}
	doc, err := store.ToDocument(f)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	f.ID = id
	return id.Hex(), nil
}

func (r *FileRepository) Get(ctx context.Context, id string) (*models.File, error) {
	var f models.File
	if err := findEntity(ctx, r.coll, id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns all file metadata, most recent upload first.
func (r *FileRepository) List(ctx context.Context) ([]models.File, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	docs, err := r.coll.Find(ctx, nil, newestUpload)
	if err != nil {
		return nil, err
	}
	files := make([]models.File, 0, len(docs))
	for _, doc := range docs {
		var f models.File
		if err := store.FromDocument(doc, &f); err != nil {
			return nil, malformed(doc, err)
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

// RegisterDefaults records the bundled assets once. Nothing is written when
// any default asset is already registered. It returns how many were added.
func (r *FileRepository) RegisterDefaults(ctx context.Context, objects []models.StoredObject) (int, error) {
	countCtx, cancel := withTimeout(ctx)
	n, err := r.coll.CountDocuments(countCtx, bson.M{"category": models.FileCategoryDefault})
	cancel()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, obj := range objects {
		name := path.Base(obj.Key)
		if !config.IsAllowedExtension(name) {
			continue
		}
		f := &models.File{
			Filename:    name,
			Filepath:    obj.Key,
			Size:        obj.Size,
			ContentType: utils.ContentTypeFor(name),
			UserID:      models.SystemUserID,
			Category:    models.FileCategoryDefault,
		}
		if _, err := r.Create(ctx, f); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
