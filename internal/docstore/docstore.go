// Package docstore defines the narrow document-store contract the domain
// packages depend on: schemaless collections of JSON documents with
// store-assigned identifiers, equality filters, and a single-field atomic
// find-and-update.
package docstore

import (
	"context"

	"github.com/go-faster/errors"
)

// Collection names used by the application.
const (
	Ranks  = "ranks"
	Promos = "promos"
	Orders = "orders"
)

// IDField is the reserved filter key matching the store-assigned identifier.
const IDField = "_id"

// ErrNotFound is returned when no document matches the given filter.
var ErrNotFound = errors.New("document not found")

// Filter selects documents by equality on top-level fields. The reserved
// IDField key matches the store-assigned identifier; all other keys match
// fields of the document body.
type Filter map[string]any

// Fields is a flat field→value map applied as a partial update
// (set semantics: listed fields are replaced, the rest are untouched).
type Fields map[string]any

// Doc is a stored document: the store-assigned identifier plus the raw JSON
// body as it was inserted.
type Doc struct {
	ID   string
	Data []byte
}

// Store is the persistence contract. Implementations must generate the
// document identifier at insert time and perform FindOneAndUpdate as a
// single atomic read-modify-write.
type Store interface {
	// Insert marshals doc into the collection and returns the new id.
	Insert(ctx context.Context, collection string, doc any) (string, error)

	// Find returns documents matching filter in insertion order.
	// A limit <= 0 means no limit. A nil filter matches everything.
	Find(ctx context.Context, collection string, filter Filter, limit int) ([]Doc, error)

	// FindOne returns the first matching document or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter Filter) (*Doc, error)

	// FindOneAndUpdate atomically sets the given fields on the first matching
	// document and returns the updated document, or ErrNotFound when no
	// document matches.
	FindOneAndUpdate(ctx context.Context, collection string, filter Filter, set Fields) (*Doc, error)

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
}
