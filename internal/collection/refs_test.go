package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rollahub/rolla-admin/internal/store"
)

func newCities(t *testing.T) (*store.MemoryStore, *Resolving) {
	t.Helper()
	st := store.NewMemoryStore()
	return st, NewResolving(st, "cities", RefFields["cities"])
}

func TestResolvingCreateStoresHandle(t *testing.T) {
	ctx := context.Background()
	st, h := newCities(t)
	require.NoError(t, st.CreateWithID(ctx, "governorates", "gov123", store.Document{"name_en": "Giza Governorate"}))

	created, err := h.Create(ctx, store.Document{"name_en": "Giza", "gover": "gov123"})
	require.NoError(t, err)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	// stored value is a typed handle, not the plain id
	raw, err := st.Get(ctx, "cities", id)
	require.NoError(t, err)
	require.Equal(t, store.Reference{Collection: "governorates", ID: "gov123"}, raw["gover"])
}

func TestResolvingListExpandsReferences(t *testing.T) {
	ctx := context.Background()
	st, h := newCities(t)
	require.NoError(t, st.CreateWithID(ctx, "governorates", "gov123", store.Document{"name_en": "Giza Governorate"}))

	_, err := h.Create(ctx, store.Document{"name_en": "Giza", "gover": "gov123"})
	require.NoError(t, err)
	_, err = h.Create(ctx, store.Document{"name_en": "Orphan", "gover": "missing"})
	require.NoError(t, err)

	docs, err := h.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	resolved, ok := docs[0]["gover"].(map[string]interface{})
	require.True(t, ok, "gover should be the materialized governorate")
	require.Equal(t, "gov123", resolved["id"])
	require.Equal(t, "Giza Governorate", resolved["name_en"])

	require.Nil(t, docs[1]["gover"], "dangling reference resolves to null")
}

func TestResolvingUpdateEmptyStringRemovesField(t *testing.T) {
	ctx := context.Background()
	st, h := newCities(t)
	require.NoError(t, st.CreateWithID(ctx, "governorates", "gov123", store.Document{"name_en": "Giza Governorate"}))

	created, err := h.Create(ctx, store.Document{"name_en": "Giza", "gover": "gov123", "slogan": "old"})
	require.NoError(t, err)
	id := created["id"].(string)

	// empty reference deletes the field; empty non-reference strings are stored literally
	_, err = h.Update(ctx, id, store.Document{"gover": "", "slogan": ""})
	require.NoError(t, err)

	raw, err := st.Get(ctx, "cities", id)
	require.NoError(t, err)
	_, present := raw["gover"]
	require.False(t, present, "emptied reference field must be removed from the document")
	require.Equal(t, "", raw["slogan"])

	// absent from payload leaves the field untouched
	_, err = h.Update(ctx, id, store.Document{"slogan": "new"})
	require.NoError(t, err)
	raw, err = st.Get(ctx, "cities", id)
	require.NoError(t, err)
	require.Equal(t, "new", raw["slogan"])
}

func TestResolvingMultipleReferenceFields(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	h := NewResolving(st, "requests", RefFields["requests"])

	require.NoError(t, st.CreateWithID(ctx, "users", "u1", store.Document{"displayName": "Client"}))
	require.NoError(t, st.CreateWithID(ctx, "proposals", "p1", store.Document{"price": 100.0}))

	created, err := h.Create(ctx, store.Document{
		"status":           "open",
		"client":           "u1",
		"acceptedProposal": "p1",
	})
	require.NoError(t, err)

	got, err := h.Get(ctx, created["id"].(string))
	require.NoError(t, err)

	client := got["client"].(map[string]interface{})
	require.Equal(t, "u1", client["id"])
	proposal := got["acceptedProposal"].(map[string]interface{})
	require.Equal(t, 100.0, proposal["price"])
	// declared but never written reference fields read as null
	require.Nil(t, got["acceptedSupplier"])
}

func TestGenericCreateAndImmutableCreatedAt(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	g := NewGeneric(st, "countries")

	created, err := g.Create(ctx, store.Document{"name_en": "Egypt", "id": "ignored"})
	require.NoError(t, err)
	require.NotEqual(t, "ignored", created["id"])
	require.NotNil(t, created["createdAt"])
	require.NotNil(t, created["updatedAt"])

	id := created["id"].(string)
	updated, err := g.Update(ctx, id, store.Document{"name_en": "Misr", "createdAt": "2001-01-01"})
	require.NoError(t, err)
	require.Equal(t, "Misr", updated["name_en"])
	require.Equal(t, created["createdAt"], updated["createdAt"], "createdAt must survive update payloads")
}

func TestGenericListDoesNotExpand(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.CreateWithID(ctx, "governorates", "gov123", store.Document{"name_en": "Giza Governorate"}))
	require.NoError(t, st.CreateWithID(ctx, "cities", "c1", store.Document{
		"name_en": "Giza",
		"gover":   st.MakeReference("governorates", "gov123"),
	}))

	g := NewGeneric(st, "cities")
	docs, err := g.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.IsType(t, store.Reference{}, docs[0]["gover"], "generic handler leaves handles untouched")
}

func TestRegistryDispatch(t *testing.T) {
	st := store.NewMemoryStore()
	reg := NewRegistry(st, nil)

	require.IsType(t, &Resolving{}, reg.For("cities"))
	require.IsType(t, &Resolving{}, reg.For("proposals"))
	require.IsType(t, &Generic{}, reg.For("countries"))
	require.IsType(t, &Generic{}, reg.For("never_heard_of_it"))
}

func TestResolvingGetNotFound(t *testing.T) {
	_, h := newCities(t)
	_, err := h.Get(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}
