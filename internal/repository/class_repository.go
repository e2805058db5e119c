package repository

import (
	"context"
	"fmt"

	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/store"
)

// ClassRepo encapsulates queries on the classes collection.
type ClassRepo struct{ coll store.Collection }

func NewClassRepo(s store.Store) *ClassRepo { return &ClassRepo{coll: s.Collection(store.Classes)} }

// ListAll returns every class regardless of status.
func (r *ClassRepo) ListAll(ctx context.Context) ([]model.Class, error) {
	return r.find(ctx, nil, store.FindOptions{})
}

// ListApproved returns approved classes; popular orders by enrolment and
// keeps the top six.
func (r *ClassRepo) ListApproved(ctx context.Context, popular bool) ([]model.Class, error) {
	opts := store.FindOptions{}
	if popular {
		opts = store.FindOptions{SortBy: "enrolled", Descending: true, Limit: popularLimit}
	}
	return r.find(ctx, store.Filter{"status": string(model.ClassApproved)}, opts)
}

// ListByInstructor returns the classes owned by the instructor email.
func (r *ClassRepo) ListByInstructor(ctx context.Context, email string) ([]model.Class, error) {
	return r.find(ctx, store.Filter{"email": normalizeEmail(email)}, store.FindOptions{})
}

// Create inserts a new class in the pending state.
func (r *ClassRepo) Create(ctx context.Context, c model.Class) (store.InsertResult, error) {
	c.ID = ""
	c.Email = normalizeEmail(c.Email)
	c.Status = model.ClassPending
	c.Feedback = ""
	d, err := store.Encode(c)
	if err != nil {
		return store.InsertResult{}, err
	}
	return r.coll.InsertOne(ctx, d)
}

// Review sets the status and feedback of the class with the given id.
func (r *ClassRepo) Review(ctx context.Context, id string, status model.ClassStatus, feedback string) (store.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, store.Filter{store.IDField: id}, store.Patch{
		"status":   string(status),
		"feedback": feedback,
	})
}

func (r *ClassRepo) find(ctx context.Context, f store.Filter, opts store.FindOptions) ([]model.Class, error) {
	docs, err := r.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("find classes: %w", err)
	}
	out := make([]model.Class, 0, len(docs))
	for _, d := range docs {
		var c model.Class
		if err := store.Decode(d, &c); err != nil {
			return nil, fmt.Errorf("decode class %s: %w", d.ID(), err)
		}
		out = append(out, c)
	}
	return out, nil
}
