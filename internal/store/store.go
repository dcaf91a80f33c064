package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Document is an untyped field map belonging to one collection. Values are
// plain JSON-ish types (string, float64, bool, nil, nested maps/slices),
// time.Time for gateway-stamped timestamps, or Reference for stored
// reference handles.
type Document map[string]interface{}

// Reference is a typed handle to another document, stored in place of a
// plain string id. It is distinct from the resolved sub-document the read
// path produces.
type Reference struct {
	Collection string `bson:"_refCollection" json:"_refCollection"`
	ID         string `bson:"_refId" json:"_refId"`
}

// deleteMarker is the sentinel an update payload uses to remove a field
// from the stored document, as opposed to setting it to null.
type deleteMarker struct{}

// Delete returns the field-removal marker. Updates translate it to an
// unset, never to a stored null.
func Delete() interface{} { return deleteMarker{} }

// IsDelete reports whether v is the field-removal marker.
func IsDelete(v interface{}) bool {
	_, ok := v.(deleteMarker)
	return ok
}

// ListOptions narrows a List call. Zero Limit means the store default (100).
type ListOptions struct {
	Limit     int
	OrderBy   string
	Direction string // "asc" (default) or "desc"
}

const DefaultListLimit = 100

// Store is the document-store contract the gateway consumes. Implementations
// must treat Delete() marker values in Update payloads as field removals.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string, opts ListOptions) ([]Document, error)
	Create(ctx context.Context, collection string, fields Document) (string, error)
	Update(ctx context.Context, collection, id string, fields Document) error
	Delete(ctx context.Context, collection, id string) error
	// MakeReference builds the handle stored for a reference field.
	MakeReference(collection, id string) Reference
	// Follow resolves a handle to its target document, or ErrNotFound.
	Follow(ctx context.Context, ref Reference) (Document, error)
}
