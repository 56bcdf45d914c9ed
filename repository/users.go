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

type UserRepository struct {
	coll store.Collection
}

func NewUserRepository(db store.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(store.Users)}
}

// Create inserts u unless its email is already registered.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (string, error) {
	if u.Name == "" || u.Email == "" || u.PasswordHash == "" {
		return "", &models.ValidationError{Reason: "name, email, and password are required"}
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.CreatedAt = u.CreatedAt.UTC().Truncate(time.Millisecond)

	if _, err := r.GetByEmail(ctx, u.Email); err == nil {
		return "", fmt.Errorf("%w: email %s", ErrConflict, u.Email)
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	doc, err := store.ToDocument(u)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	u.ID = id
	return id.Hex(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := findEntity(ctx, r.coll, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc, err := r.coll.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := store.FromDocument(doc, &u); err != nil {
		return nil, malformed(doc, err)
	}
	return &u, nil
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	docs, err := r.coll.Find(ctx, nil, store.NewestFirst)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var u models.User
		if err := store.FromDocument(doc, &u); err != nil {
			return nil, malformed(doc, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// Update applies the profile fields a user may edit and returns the
// refreshed user.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for k, v := range fields {
		if !models.UserUpdatableFields[k] {
			continue
		}
		s, isString := v.(string)
		switch {
		case v == nil && (k == "profile_picture" || k == "birthday"):
		case !isString:
			return nil, &models.ValidationError{Field: k, Reason: fmt.Sprintf("must be a string, got %T", v)}
		case s == "" && (k == "name" || k == "email"):
			return nil, &models.ValidationError{Field: k, Reason: "must not be empty"}
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil, &models.ValidationError{Reason: "nothing to update"}
	}

	if email, ok := set["email"].(string); ok {
		existing, err := r.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != oid:
			return nil, fmt.Errorf("%w: email %s", ErrConflict, email)
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	updateCtx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.coll.UpdateOne(updateCtx, byID(oid), set)
	if err != nil {
		return nil, err
	}
	if res.Matched == 0 {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}
