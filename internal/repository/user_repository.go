package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/store"
)

// popularLimit caps the "popular" listings.
const popularLimit = 6

// UserRepo is the identity store adapter: it resolves an email to the
// user record (and its role) on every call, never caching.
type UserRepo struct{ coll store.Collection }

func NewUserRepo(s store.Store) *UserRepo { return &UserRepo{coll: s.Collection(store.Users)} }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	d, err := r.coll.FindOne(ctx, store.Filter{"email": normalizeEmail(email)})
	if errors.Is(err, store.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	var u model.User
	if err := store.Decode(d, &u); err != nil {
		return model.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// RoleOf returns the stored role for email. A missing user resolves to
// RoleUnset with no error; store failures are returned as errors.
func (r *UserRepo) RoleOf(ctx context.Context, email string) (model.Role, error) {
	u, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return model.RoleUnset, nil
	}
	if err != nil {
		return model.RoleUnset, err
	}
	return u.Role, nil
}

// Create inserts u unless a user with the same email exists.
func (r *UserRepo) Create(ctx context.Context, u model.User) (store.InsertResult, error) {
	u.Email = normalizeEmail(u.Email)
	u.ID = ""
	if _, err := r.GetByEmail(ctx, u.Email); err == nil {
		return store.InsertResult{}, ErrUserExists
	} else if !errors.Is(err, ErrNotFound) {
		return store.InsertResult{}, err
	}
	d, err := store.Encode(u)
	if err != nil {
		return store.InsertResult{}, err
	}
	return r.coll.InsertOne(ctx, d)
}

// List returns every user.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.find(ctx, nil, store.FindOptions{})
}

// ListInstructors returns instructors; popular orders them by student
// count and keeps the top six.
func (r *UserRepo) ListInstructors(ctx context.Context, popular bool) ([]model.User, error) {
	opts := store.FindOptions{}
	if popular {
		opts = store.FindOptions{SortBy: "students", Descending: true, Limit: popularLimit}
	}
	return r.find(ctx, store.Filter{"role": model.RoleInstructor.String()}, opts)
}

// SetRole overwrites the role of the user with the given id.
func (r *UserRepo) SetRole(ctx context.Context, id string, role model.Role) (store.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, store.Filter{store.IDField: id}, store.Patch{"role": role.String()})
}

func (r *UserRepo) find(ctx context.Context, f store.Filter, opts store.FindOptions) ([]model.User, error) {
	docs, err := r.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	out := make([]model.User, 0, len(docs))
	for _, d := range docs {
		var u model.User
		if err := store.Decode(d, &u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", d.ID(), err)
		}
		out = append(out, u)
	}
	return out, nil
}
