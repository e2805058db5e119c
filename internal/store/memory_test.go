package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClasses(t *testing.T, c Collection) {
	t.Helper()
	ctx := context.Background()
	for _, d := range []Document{
		{"name": "Sketching", "status": "approved", "enrolled": 12},
		{"name": "Oil", "status": "pending", "enrolled": 40},
		{"name": "Watercolor", "status": "approved", "enrolled": 30},
		{"name": "Charcoal", "status": "approved", "enrolled": 5},
	} {
		doc, err := Encode(d)
		require.NoError(t, err)
		_, err = c.InsertOne(ctx, doc)
		require.NoError(t, err)
	}
}

func TestMemory_FindFiltersAndSorts(t *testing.T) {
	c := NewMemoryStore().Collection(Classes)
	seedClasses(t, c)

	got, err := c.Find(context.Background(), Filter{"status": "approved"}, FindOptions{SortBy: "enrolled", Descending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Watercolor", got[0]["name"])
	assert.Equal(t, "Sketching", got[1]["name"])

	all, err := c.Find(context.Background(), nil, FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Sketching", all[0]["name"], "insertion order kept")
}

func TestMemory_FindOne(t *testing.T) {
	c := NewMemoryStore().Collection(Users)
	res, err := c.InsertOne(context.Background(), Document{"email": "a@example.com", "role": "admin"})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.NotEmpty(t, res.InsertedID)

	d, err := c.FindOne(context.Background(), Filter{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "admin", d["role"])
	assert.Equal(t, res.InsertedID, d.ID())

	byID, err := c.FindOne(context.Background(), Filter{IDField: res.InsertedID})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID["email"])

	_, err = c.FindOne(context.Background(), Filter{"email": "nobody@example.com"})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestMemory_ReturnedDocumentsAreCopies(t *testing.T) {
	c := NewMemoryStore().Collection(Users)
	_, err := c.InsertOne(context.Background(), Document{"email": "a@example.com", "role": "student"})
	require.NoError(t, err)

	d, err := c.FindOne(context.Background(), Filter{"email": "a@example.com"})
	require.NoError(t, err)
	d["role"] = "admin"

	again, err := c.FindOne(context.Background(), Filter{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "student", again["role"])
}

func TestMemory_UpdateOne(t *testing.T) {
	c := NewMemoryStore().Collection(Users)
	ins, err := c.InsertOne(context.Background(), Document{"email": "a@example.com", "role": "student"})
	require.NoError(t, err)

	res, err := c.UpdateOne(context.Background(), Filter{IDField: ins.InsertedID}, Patch{"role": "instructor"})
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, res)

	res, err = c.UpdateOne(context.Background(), Filter{IDField: ins.InsertedID}, Patch{"role": "instructor"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ModifiedCount, "unchanged value is not a modification")

	res, err = c.UpdateOne(context.Background(), Filter{IDField: "missing"}, Patch{"role": "admin"})
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Acknowledged: true}, res)

	_, err = c.UpdateOne(context.Background(), Filter{}, Patch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
	_, err = c.UpdateOne(context.Background(), Filter{}, Patch{IDField: "x"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestMemory_DuplicateID(t *testing.T) {
	c := NewMemoryStore().Collection(Users)
	_, err := c.InsertOne(context.Background(), Document{IDField: "fixed", "email": "a@example.com"})
	require.NoError(t, err)
	_, err = c.InsertOne(context.Background(), Document{IDField: "fixed", "email": "b@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().Collection(Users).FindOne(ctx, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDecode(t *testing.T) {
	type sample struct {
		Email string `json:"email"`
		Seats int    `json:"seats"`
	}
	d, err := Encode(sample{Email: "a@example.com", Seats: 3})
	require.NoError(t, err)
	assert.Equal(t, float64(3), d["seats"])

	var back sample
	require.NoError(t, Decode(d, &back))
	assert.Equal(t, sample{Email: "a@example.com", Seats: 3}, back)
}
