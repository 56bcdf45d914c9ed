package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"go.mongodb.org/mongo-driver/bson"
)

type FollowRepository struct {
	coll store.Collection
}

func NewFollowRepository(db store.Database) *FollowRepository {
	return &FollowRepository{coll: db.Collection(store.Follows)}
}

func edge(followerID, followingID string) bson.M {
	return bson.M{"follower_id": followerID, "following_id": followingID}
}

// Follow records that followerID follows followingID. Following yourself is
// a validation error and following twice is ErrConflict.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	if followerID == followingID {
		return nil, &models.ValidationError{Reason: "cannot follow yourself"}
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.coll.FindOne(ctx, edge(followerID, followingID)); err == nil {
		return nil, fmt.Errorf("%w: already following", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	f := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	doc, err := store.ToDocument(f)
	if err != nil {
		return nil, err
	}
	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	f.ID = id
	return f, nil
}

// Unfollow removes the edge and reports whether it existed.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	n, err := r.coll.DeleteOne(ctx, edge(followerID, followingID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	n, err := r.coll.CountDocuments(ctx, edge(followerID, followingID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Followers returns the ids of users following userID.
func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	return r.ends(ctx, bson.M{"following_id": userID}, "follower_id")
}

// Following returns the ids of users userID follows.
func (r *FollowRepository) Following(ctx context.Context, userID string) ([]string, error) {
	return r.ends(ctx, bson.M{"follower_id": userID}, "following_id")
}

func (r *FollowRepository) ends(ctx context.Context, filter bson.M, key string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	docs, err := r.coll.Find(ctx, filter, store.NewestFirst)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc[key].(string)
		if !ok {
			return nil, malformed(doc, fmt.Errorf("%s is %T", key, doc[key]))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
