package store

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	colls map[string]*memoryCollection
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{colls: make(map[string]*memoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.colls[name]
	if !ok {
		c = &memoryCollection{}
		s.colls[name] = c
	}
	return c
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

type memoryCollection struct {
	mu   sync.RWMutex
	docs []Document // insertion order
}

func (c *memoryCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.docs {
		if matches(d, filter) {
			return clone(d), nil
		}
	}
	return nil, ErrNoDocuments
}

func (c *memoryCollection) Find(ctx context.Context, filter Filter, opts FindOptions) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.SortBy != "" {
		if err := validField(opts.SortBy); err != nil {
			return nil, err
		}
	}
	c.mu.RLock()
	out := make([]Document, 0, len(c.docs))
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, clone(d))
		}
	}
	c.mu.RUnlock()

	if opts.SortBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := number(out[i][opts.SortBy]), number(out[j][opts.SortBy])
			if opts.Descending {
				return a > b
			}
			return a < b
		})
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc Document) (InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return InsertResult{}, err
	}
	d := clone(doc)
	id := d.ID()
	if id == "" {
		id = uuid.NewString()
		d[IDField] = id
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.docs {
		if existing.ID() == id {
			return InsertResult{}, ErrDuplicateKey
		}
	}
	c.docs = append(c.docs, d)
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter Filter, patch Patch) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}
	if len(patch) == 0 {
		return UpdateResult{}, ErrEmptyPatch
	}
	for k := range patch {
		if k == IDField {
			return UpdateResult{}, ErrInvalidField
		}
		if err := validField(k); err != nil {
			return UpdateResult{}, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if !matches(d, filter) {
			continue
		}
		changed := false
		for k, v := range normalize(patch) {
			if cur, ok := d[k]; !ok || !reflect.DeepEqual(cur, v) {
				d[k] = v
				changed = true
			}
		}
		res := UpdateResult{Acknowledged: true, MatchedCount: 1}
		if changed {
			res.ModifiedCount = 1
		}
		return res, nil
	}
	return UpdateResult{Acknowledged: true}, nil
}

func matches(d Document, filter Filter) bool {
	for k, want := range filter {
		got, ok := d[k]
		if !ok {
			return false
		}
		if scalarText(got) != scalarText(want) {
			return false
		}
	}
	return true
}

func clone(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// normalize passes patch values through JSON so stored values have the same
// shape as inserted documents (numbers as float64 and so on).
func normalize(p Patch) Document {
	d, err := Encode(p)
	if err != nil {
		return Document(p)
	}
	return d
}
