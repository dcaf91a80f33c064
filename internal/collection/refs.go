package collection

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rollahub/rolla-admin/internal/store"
)

// RefFields declares, per collection, which fields hold references and the
// collection they point into. Collections not listed here get the plain
// generic handler.
var RefFields = map[string]map[string]string{
	"cities": {
		"gover": "governorates",
	},
	"projects": {
		"property_type":  "property_types",
		"finishing_type": "finishing_types",
	},
	"requests": {
		"client":           "users",
		"acceptedProposal": "proposals",
		"acceptedSupplier": "users",
	},
	"proposals": {
		"request":  "requests",
		"supplier": "users",
	},
	"stories": {
		"storyCreator": "users",
	},
}

// maximum reference lookups in flight for a single list call
const resolveConcurrency = 8

// Resolving wraps the generic handler for a collection with declared
// reference fields. Writes contract plain string ids into reference handles;
// reads expand handles into the full target document (or null when the
// target is gone).
type Resolving struct {
	generic *Generic
	st      store.Store
	refs    map[string]string
}

func NewResolving(st store.Store, name string, refs map[string]string) *Resolving {
	return &Resolving{generic: NewGeneric(st, name), st: st, refs: refs}
}

func (r *Resolving) List(ctx context.Context, opts store.ListOptions) ([]store.Document, error) {
	docs, err := r.generic.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			return r.resolve(gctx, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Resolving) Get(ctx context.Context, id string) (store.Document, error) {
	doc, err := r.generic.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.resolve(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *Resolving) Create(ctx context.Context, fields store.Document) (store.Document, error) {
	doc := make(store.Document, len(fields))
	for k, v := range fields {
		target, isRef := r.refs[k]
		if !isRef {
			doc[k] = v
			continue
		}
		// on create an empty reference is simply not stored
		if id, ok := v.(string); ok && id != "" {
			doc[k] = r.st.MakeReference(target, id)
		}
	}
	return r.generic.Create(ctx, doc)
}

func (r *Resolving) Update(ctx context.Context, id string, fields store.Document) (store.Document, error) {
	doc := make(store.Document, len(fields))
	for k, v := range fields {
		target, isRef := r.refs[k]
		if !isRef {
			doc[k] = v
			continue
		}
		// present but empty means remove the field; absent means untouched
		if s, ok := v.(string); ok && s != "" {
			doc[k] = r.st.MakeReference(target, s)
		} else {
			doc[k] = store.Delete()
		}
	}
	return r.generic.Update(ctx, id, doc)
}

func (r *Resolving) Delete(ctx context.Context, id string) error {
	return r.generic.Delete(ctx, id)
}

// resolve replaces every declared reference field on doc with the target
// document merged with its id, or null when the target does not exist. Any
// store error fails the whole read.
func (r *Resolving) resolve(ctx context.Context, doc store.Document) error {
	for field := range r.refs {
		v, present := doc[field]
		if !present || v == nil {
			doc[field] = nil
			continue
		}
		ref, ok := v.(store.Reference)
		if !ok {
			// legacy value that is not a handle; surfaced as unresolved
			doc[field] = nil
			continue
		}
		target, err := r.st.Follow(ctx, ref)
		if err != nil {
			if err == store.ErrNotFound {
				doc[field] = nil
				continue
			}
			return err
		}
		target["id"] = ref.ID
		doc[field] = map[string]interface{}(target)
	}
	return nil
}
