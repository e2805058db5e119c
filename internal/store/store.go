// Package store is the record-store collaborator consumed by the
// repositories: named collections of JSON documents supporting find,
// find-one, insert-one and update-one. Two implementations exist, MySQL
// (one JSON table per collection) and an in-memory map for tests and local
// runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// IDField is the document key holding the document id.
const IDField = "_id"

var (
	// ErrNoDocuments is returned by FindOne when nothing matches.
	ErrNoDocuments = errors.New("store: no documents in result")
	// ErrDuplicateKey is returned by InsertOne when the id already exists.
	ErrDuplicateKey = errors.New("store: duplicate key")
	// ErrInvalidField is returned when a filter, sort or patch names a field
	// that is not a plain identifier.
	ErrInvalidField = errors.New("store: invalid field name")
	// ErrEmptyPatch is returned by UpdateOne when there is nothing to set.
	ErrEmptyPatch = errors.New("store: empty patch")
)

// Document is a single record. Values follow encoding/json conventions.
type Document map[string]any

// ID returns the document id, or "" when absent.
func (d Document) ID() string {
	if v, ok := d[IDField].(string); ok {
		return v
	}
	return ""
}

// Filter matches documents whose top-level fields equal the given values.
// An empty filter matches everything.
type Filter map[string]any

// Patch lists top-level fields to overwrite ($set semantics).
type Patch map[string]any

// FindOptions control ordering and size of Find results.
type FindOptions struct {
	SortBy     string // numeric field to order by; empty keeps insertion order
	Descending bool
	Limit      int // zero means unlimited
}

// InsertResult acknowledges an insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an update.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// Collection is a named set of documents.
type Collection interface {
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]Document, error)
	InsertOne(ctx context.Context, doc Document) (InsertResult, error)
	UpdateOne(ctx context.Context, filter Filter, patch Patch) (UpdateResult, error)
}

// Store hands out collections and owns the underlying connection.
type Store interface {
	Collection(name string) Collection
	Close() error
}

// Collection names used by the API.
const (
	Users           = "users"
	Classes         = "classes"
	SelectedClasses = "selectedClass"
)

// AllCollections lists every collection the API touches.
var AllCollections = []string{Users, Classes, SelectedClasses}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validField(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

// Encode converts a typed value into a Document through its JSON form.
func Encode(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// Decode fills v from a Document through its JSON form.
func Decode(d Document, v any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// scalarText renders a filter value the way MySQL's JSON_UNQUOTE renders a
// stored scalar, so both backends compare the same text.
func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// number coerces a JSON number (or numeric string) to float64; anything
// else sorts as zero.
func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	}
	return 0
}
