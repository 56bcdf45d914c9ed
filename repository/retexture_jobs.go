package repository

import (
	"context"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
)

// RetextureJobRepository is an append-only log of proxied retexture calls.
type RetextureJobRepository struct {
	coll store.Collection
}

func NewRetextureJobRepository(db store.Database) *RetextureJobRepository {
	return &RetextureJobRepository{coll: db.Collection(store.MeshyJobs)}
}

func (r *RetextureJobRepository) Record(ctx context.Context, job *models.RetextureJob) (string, error) {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	doc, err := store.ToDocument(job)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	job.ID = id
	return id.Hex(), nil
}

func (r *RetextureJobRepository) Get(ctx context.Context, id string) (*models.RetextureJob, error) {
	var job models.RetextureJob
	if err := findEntity(ctx, r.coll, id, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
