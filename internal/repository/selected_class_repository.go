package repository

import (
	"context"
	"fmt"

	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/store"
)

// SelectedClassRepo stores the classes students have selected.
type SelectedClassRepo struct{ coll store.Collection }

func NewSelectedClassRepo(s store.Store) *SelectedClassRepo {
	return &SelectedClassRepo{coll: s.Collection(store.SelectedClasses)}
}

// Create inserts a selection.
func (r *SelectedClassRepo) Create(ctx context.Context, sc model.SelectedClass) (store.InsertResult, error) {
	sc.ID = ""
	sc.Email = normalizeEmail(sc.Email)
	d, err := store.Encode(sc)
	if err != nil {
		return store.InsertResult{}, err
	}
	return r.coll.InsertOne(ctx, d)
}

// ListByEmail returns the selections of one student.
func (r *SelectedClassRepo) ListByEmail(ctx context.Context, email string) ([]model.SelectedClass, error) {
	docs, err := r.coll.Find(ctx, store.Filter{"email": normalizeEmail(email)}, store.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("find selected classes: %w", err)
	}
	out := make([]model.SelectedClass, 0, len(docs))
	for _, d := range docs {
		var sc model.SelectedClass
		if err := store.Decode(d, &sc); err != nil {
			return nil, fmt.Errorf("decode selected class %s: %w", d.ID(), err)
		}
		out = append(out, sc)
	}
	return out, nil
}
