package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by unit tests and as the fallback
// when no MongoDB is configured. Lists preserve insertion order unless an
// order-by field is given.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	order       map[string][]string
	seq         int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
	}
}

func (m *MemoryStore) nextID(collection string) string {
	m.seq++
	return fmt.Sprintf("%s_%d_%d", collection, time.Now().UnixNano(), m.seq)
}

func cloneDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col, ok := m.collections[collection]
	if !ok {
		return nil, ErrNotFound
	}
	d, ok := col[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneDoc(d)
	out["id"] = id
	return out, nil
}

func (m *MemoryStore) List(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	ids := m.order[collection]
	col := m.collections[collection]
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		d := cloneDoc(col[id])
		d["id"] = id
		out = append(out, d)
	}
	if opts.OrderBy != "" {
		desc := opts.Direction == "desc"
		field := opts.OrderBy
		sort.SliceStable(out, func(i, j int) bool {
			less := lessValue(out[i][field], out[j][field])
			if desc {
				return !less
			}
			return less
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// lessValue compares numbers numerically and everything else textually.
func lessValue(a, b interface{}) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af < bf
	}
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Before(bt)
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func (m *MemoryStore) Create(ctx context.Context, collection string, fields Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	id := m.nextID(collection)
	doc := make(Document, len(fields))
	for k, v := range fields {
		if IsDelete(v) {
			continue
		}
		doc[k] = v
	}
	m.collections[collection][id] = doc
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

// CreateWithID inserts under a caller-chosen id. Used by the seeder and tests
// to pin lookup documents to known ids.
func (m *MemoryStore) CreateWithID(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	if _, exists := m.collections[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.collections[collection][id] = cloneDoc(fields)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	d, ok := col[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		if IsDelete(v) {
			delete(d, k)
			continue
		}
		d[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := col[id]; !ok {
		return nil
	}
	delete(col, id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) MakeReference(collection, id string) Reference {
	return Reference{Collection: collection, ID: id}
}

func (m *MemoryStore) Follow(ctx context.Context, ref Reference) (Document, error) {
	return m.Get(ctx, ref.Collection, ref.ID)
}
