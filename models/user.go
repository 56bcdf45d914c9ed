package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user may carry in their token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash" json:"-"` // never returned in JSON
	Role           string             `bson:"role" json:"role"`
	ProfilePicture *string            `bson:"profile_picture" json:"profile_picture"`
	Bio            string             `bson:"bio" json:"bio"`
	Birthday       *string            `bson:"birthday" json:"birthday"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// UserUpdatableFields are the profile keys a user may change on themselves.
var UserUpdatableFields = map[string]bool{
	"name":            true,
	"email":           true,
	"profile_picture": true,
	"bio":             true,
	"birthday":        true,
}
