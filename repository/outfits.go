package repository

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"go.mongodb.org/mongo-driver/bson"
)

// OutfitRepository stores outfits with their garment snapshots embedded.
type OutfitRepository struct {
	coll store.Collection
	log  *logger.Logger
}

func NewOutfitRepository(db store.Database, log *logger.Logger) *OutfitRepository {
	return &OutfitRepository{coll: db.Collection(store.Outfits), log: log}
}

// Create inserts o and returns the assigned id, which is also set on o.
func (r *OutfitRepository) Create(ctx context.Context, o *models.Outfit) (string, error) {
	if o == nil {
		return "", &models.ValidationError{Reason: "outfit is required"}
	}
	doc := models.EncodeOutfit(o)
	delete(doc, "_id")

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	o.ID = id
	return id.Hex(), nil
}

func (r *OutfitRepository) Get(ctx context.Context, id string) (*models.Outfit, error) {
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

// ListByUser returns one user's outfits, newest first. An empty userID
// returns every outfit, which is the public feed.
func (r *OutfitRepository) ListByUser(ctx context.Context, userID string) ([]*models.Outfit, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	docs, err := r.coll.Find(ctx, filter, store.NewestFirst)
	if err != nil {
		return nil, err
	}
	outfits := make([]*models.Outfit, 0, len(docs))
	for _, doc := range docs {
		o, err := r.decode(doc)
		if err != nil {
			return nil, err
		}
		outfits = append(outfits, o)
	}
	return outfits, nil
}

// Update replaces any subset of name, style, bio, the garment slots and
// published. Slot values go through the garment codec exactly as on create.
func (r *OutfitRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	set := bson.M{}
	for k, v := range fields {
		if !models.OutfitUpdatableFields[k] {
			continue
		}
		switch k {
		case "hat", "shirt", "pants", "shoes":
			g, err := models.DecodeSlot(k, v)
			if err != nil {
				return false, err
			}
			set[k] = models.EncodeSlot(g)
		case "published":
			p, err := models.PublishedValue(v)
			if err != nil {
				return false, err
			}
			set[k] = p
		default:
			s, ok := v.(string)
			if !ok {
				return false, &models.ValidationError{Field: k, Reason: fmt.Sprintf("must be a string, got %T", v)}
			}
			if k == "name" && s == "" {
				return false, &models.ValidationError{Field: k, Reason: "must not be empty"}
			}
			set[k] = s
		}
	}
	if len(set) == 0 {
		return false, &models.ValidationError{Reason: "no valid fields to update"}
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.coll.UpdateOne(ctx, byID(oid), set)
	if err != nil {
		return false, err
	}
	if res.Matched == 0 {
		return false, fmt.Errorf("%w: outfit %s", ErrNotFound, id)
	}
	return res.Modified > 0, nil
}

func (r *OutfitRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *OutfitRepository) decode(doc bson.M) (*models.Outfit, error) {
	o, err := models.DecodeOutfit(doc)
	if err != nil {
		r.log.Warn("stored outfit does not decode", "id", doc["_id"], "error", err)
		return nil, malformed(doc, err)
	}
	return o, nil
}
