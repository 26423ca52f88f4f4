package cartsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

func TestAddLocal_MergesQuantities(t *testing.T) {
	store := session.NewMemoryStore()

	_, err := AddLocal(store, 1, 2)
	require.NoError(t, err)
	_, err = AddLocal(store, 2, 1)
	require.NoError(t, err)
	entries, err := AddLocal(store, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ProductID: 1, Quantity: 5},
		{ProductID: 2, Quantity: 1},
	}, entries)

	raw, err := store.Get(session.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product_id":1,"quantity":5},{"product_id":2,"quantity":1}]`, raw)
}

func TestAddLocal_MergesLegacyIDEntries(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(session.KeyCart, `[{"id":7,"quantity":1}]`))

	entries, err := AddLocal(store, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 7, Quantity: 3}}, entries)
}

func TestAddLocal_Validation(t *testing.T) {
	store := session.NewMemoryStore()

	_, err := AddLocal(store, 0, 1)
	assert.Error(t, err)
	_, err = AddLocal(store, 1, 0)
	assert.Error(t, err)

	_, err = store.Get(session.KeyCart)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLoadLocal(t *testing.T) {
	store := session.NewMemoryStore()

	entries, err := LoadLocal(store)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Set(session.KeyCart, `[{"product_id":3,"quantity":4}]`))
	entries, err = LoadLocal(store)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ProductID: 3, Quantity: 4}}, entries)

	require.NoError(t, store.Set(session.KeyCart, `oops`))
	_, err = LoadLocal(store)
	assert.Error(t, err)
}
