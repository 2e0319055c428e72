// Package store is the document store adapter. It exposes named collections
// of flat documents with filter-based find, insert, update and delete, and
// translates them to and from each backend's native representation.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrNotFound is returned when a find-one or update matches no document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique field constraint.
	ErrDuplicate = errors.New("duplicate document")
)

// Document is the store-side shape of an entity. Field values are strings;
// the identifier and timestamps are managed by the store.
type Document struct {
	ID        string
	Fields    map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter selects documents by equality. Zero-valued parts are unconstrained,
// so the zero Filter matches every document in a collection.
type Filter struct {
	ID     string
	Fields map[string]string
}

// All matches every document.
func All() Filter {
	return Filter{}
}

// ByID matches the document with the given identifier. Valid identifiers are
// normalised to lower-case hex so every backend compares them the same way;
// an identifier that is not a valid ObjectID hex string matches nothing.
func ByID(id string) Filter {
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		id = oid.Hex()
	}
	return Filter{ID: id}
}

// ByField matches documents whose field equals value.
func ByField(field, value string) Filter {
	return Filter{Fields: map[string]string{field: value}}
}

// Collection is a single named set of documents.
type Collection interface {
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context, filter Filter) ([]Document, error)
	Insert(ctx context.Context, fields map[string]string) (Document, error)
	// Update sets fields on the first document matching filter and returns it
	// as stored after the update.
	Update(ctx context.Context, filter Filter, fields map[string]string) (Document, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}

// Store is a process-wide handle on a document database.
type Store interface {
	Collection(name string) Collection
	// EnsureUnique creates a unique constraint on field within collection.
	// It is idempotent.
	EnsureUnique(ctx context.Context, collection, field string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ValidID reports whether id has the store's identifier format.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// NewID returns a fresh identifier in the store's format.
func NewID() string {
	return bson.NewObjectID().Hex()
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// checkName rejects collection and field names that could not be used as
// identifiers in every backend.
func checkName(kind, name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

func checkFields(fields map[string]string) error {
	for name := range fields {
		if err := checkName("field", name); err != nil {
			return err
		}
	}
	return nil
}

// sortedKeys gives backends a stable field order for queries and inserts.
func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
