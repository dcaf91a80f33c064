package collection

import (
	"context"
	"time"

	"github.com/rollahub/rolla-admin/internal/store"
)

// Handler is the capability every collection exposes to the HTTP layer.
// Specialized collections (declared references, users) wrap or replace the
// generic implementation behind this same interface.
type Handler interface {
	List(ctx context.Context, opts store.ListOptions) ([]store.Document, error)
	Get(ctx context.Context, id string) (store.Document, error)
	Create(ctx context.Context, fields store.Document) (store.Document, error)
	Update(ctx context.Context, id string, fields store.Document) (store.Document, error)
	Delete(ctx context.Context, id string) error
}

// Generic is the collection-agnostic CRUD handler. It stamps createdAt and
// updatedAt on writes, strips immutable fields from update payloads and does
// no reference expansion.
type Generic struct {
	st   store.Store
	name string
	now  func() time.Time
}

func NewGeneric(st store.Store, name string) *Generic {
	return &Generic{st: st, name: name, now: time.Now}
}

func (g *Generic) List(ctx context.Context, opts store.ListOptions) ([]store.Document, error) {
	return g.st.List(ctx, g.name, opts)
}

func (g *Generic) Get(ctx context.Context, id string) (store.Document, error) {
	return g.st.Get(ctx, g.name, id)
}

func (g *Generic) Create(ctx context.Context, fields store.Document) (store.Document, error) {
	doc := make(store.Document, len(fields)+2)
	for k, v := range fields {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	now := g.now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now
	id, err := g.st.Create(ctx, g.name, doc)
	if err != nil {
		return nil, err
	}
	return g.st.Get(ctx, g.name, id)
}

func (g *Generic) Update(ctx context.Context, id string, fields store.Document) (store.Document, error) {
	doc := make(store.Document, len(fields)+1)
	for k, v := range fields {
		// createdAt is immutable after creation; id never lives in the body
		if k == "id" || k == "createdAt" {
			continue
		}
		doc[k] = v
	}
	doc["updatedAt"] = g.now().UTC()
	if err := g.st.Update(ctx, g.name, id, doc); err != nil {
		return nil, err
	}
	return g.st.Get(ctx, g.name, id)
}

func (g *Generic) Delete(ctx context.Context, id string) error {
	return g.st.Delete(ctx, g.name, id)
}
