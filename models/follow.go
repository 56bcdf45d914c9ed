package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is a directed edge: FollowerID follows FollowingID. Both are user
// ids in hex form.
type Follow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID  string             `bson:"follower_id" json:"follower_id"`
	FollowingID string             `bson:"following_id" json:"following_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
