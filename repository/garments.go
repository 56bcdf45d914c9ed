package repository

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"go.mongodb.org/mongo-driver/bson"
)

// GarmentRepository stores garments of every variant in one collection,
// always through the garment codec.
type GarmentRepository struct {
	coll store.Collection
	log  *logger.Logger
}

func NewGarmentRepository(db store.Database, log *logger.Logger) *GarmentRepository {
	return &GarmentRepository{coll: db.Collection(store.Garments), log: log}
}

// Create inserts g and returns the assigned id, which is also set on g.
func (r *GarmentRepository) Create(ctx context.Context, g models.Garment) (string, error) {
	if g == nil {
		return "", &models.ValidationError{Reason: "garment is required"}
	}
	rec := models.Encode(g)
	delete(rec, "_id")

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	id, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return "", err
	}
	g.Common().ID = id
	return id.Hex(), nil
}

// Get returns the garment with the given id.
func (r *GarmentRepository) Get(ctx context.Context, id string) (models.Garment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc, err := r.coll.FindOne(ctx, byID(oid))
	if err != nil {
		return nil, err
	}
	return r.decode(doc)
}

// ListByType returns garments of one type, optionally narrowed by gender.
func (r *GarmentRepository) ListByType(ctx context.Context, garmentType, gender string) ([]models.Garment, error) {
	if !models.ValidGarmentType(garmentType) {
		return nil, &models.ValidationError{
			Field:  "type",
			Reason: fmt.Sprintf("%s: %s", models.ErrUnknownGarmentType, garmentType),
			Err:    models.ErrUnknownGarmentType,
		}
	}
	filter := bson.M{"type": garmentType}
	if gender != "" {
		if !models.ValidGender(gender) {
			return nil, &models.ValidationError{Field: "gender", Reason: "must be one of male, female, unisex"}
		}
		filter["gender"] = gender
	}
	return r.Search(ctx, filter)
}

// ListByCreator returns the garments authored by createdBy.
func (r *GarmentRepository) ListByCreator(ctx context.Context, createdBy string) ([]models.Garment, error) {
	return r.Search(ctx, bson.M{"created_by": createdBy})
}

// Search returns every garment matching filter, newest first. A nil filter
// matches everything.
func (r *GarmentRepository) Search(ctx context.Context, filter bson.M) ([]models.Garment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	docs, err := r.coll.Find(ctx, filter, store.NewestFirst)
	if err != nil {
		return nil, err
	}
	garments := make([]models.Garment, 0, len(docs))
	for _, doc := range docs {
		g, err := r.decode(doc)
		if err != nil {
			return nil, err
		}
		garments = append(garments, g)
	}
	return garments, nil
}

// Update applies the updatable subset of fields and reports whether the
// stored document changed. Keys outside that subset, such as type, id and
// created_by, are ignored.
func (r *GarmentRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return false, err
	}

	allowed := models.UpdatableFields(current)
	set := bson.M{}
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		switch val := v.(type) {
		case nil:
			if !models.NullableFields[k] {
				return false, &models.ValidationError{Field: k, Reason: "cannot be null"}
			}
		case string:
			if val == "" && !models.NullableFields[k] {
				return false, &models.ValidationError{Field: k, Reason: "must not be empty"}
			}
		default:
			return false, &models.ValidationError{Field: k, Reason: fmt.Sprintf("must be a string, got %T", v)}
		}
		set[k] = v
	}
	if len(set) == 0 {
		return false, &models.ValidationError{Reason: "no valid fields to update"}
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.coll.UpdateOne(ctx, byID(current.Common().ID), set)
	if err != nil {
		return false, err
	}
	if res.Matched == 0 {
		return false, fmt.Errorf("%w: garment %s", ErrNotFound, id)
	}
	return res.Modified > 0, nil
}

// Delete removes the garment and reports whether it existed. Outfits keep
// their own snapshot of it.
func (r *GarmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *GarmentRepository) decode(doc bson.M) (models.Garment, error) {
	g, err := models.Decode(doc)
	if err != nil {
		r.log.Warn("stored garment does not decode", "id", doc["_id"], "error", err)
		return nil, malformed(doc, err)
	}
	return g, nil
}
