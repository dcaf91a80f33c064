package collection

import (
	"context"

	"github.com/rollahub/rolla-admin/internal/store"
	"github.com/rollahub/rolla-admin/internal/users"
)

// Registry maps a collection name to its handler. Collections with declared
// reference fields get a resolving handler, users gets the lifecycle
// coordinator, everything else falls back to a plain generic handler built
// on demand.
type Registry struct {
	st       store.Store
	handlers map[string]Handler
}

func NewRegistry(st store.Store, userSvc *users.Service) *Registry {
	r := &Registry{st: st, handlers: make(map[string]Handler)}
	for name, refs := range RefFields {
		r.handlers[name] = NewResolving(st, name, refs)
	}
	if userSvc != nil {
		r.handlers[users.Collection] = &usersHandler{svc: userSvc, generic: NewGeneric(st, users.Collection)}
	}
	return r
}

// For returns the handler for a collection, never nil.
func (r *Registry) For(name string) Handler {
	if h, ok := r.handlers[name]; ok {
		return h
	}
	return NewGeneric(r.st, name)
}

// usersHandler adapts the user lifecycle coordinator to the collection
// Handler shape. Reads go straight to the store; writes run the dual-write
// coordinator and surface the provider subject id on created documents.
type usersHandler struct {
	svc     *users.Service
	generic *Generic
}

func (u *usersHandler) List(ctx context.Context, opts store.ListOptions) ([]store.Document, error) {
	return u.generic.List(ctx, opts)
}

func (u *usersHandler) Get(ctx context.Context, id string) (store.Document, error) {
	return u.generic.Get(ctx, id)
}

func (u *usersHandler) Create(ctx context.Context, fields store.Document) (store.Document, error) {
	res, err := u.svc.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	doc := res.Doc
	doc["authUid"] = res.AuthUID
	return doc, nil
}

func (u *usersHandler) Update(ctx context.Context, id string, fields store.Document) (store.Document, error) {
	res, err := u.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return res.Doc, nil
}

func (u *usersHandler) Delete(ctx context.Context, id string) error {
	_, err := u.svc.Delete(ctx, id)
	return err
}
