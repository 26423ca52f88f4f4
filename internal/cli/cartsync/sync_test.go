package cartsync

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/notify"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// mockCart implements CartAdder for testing
type mockCart struct {
	mock.Mock
}

func (m *mockCart) AddToCart(ctx context.Context, productID uint, quantity int) (*client.Response, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Response), args.Error(1)
}

func setup(t *testing.T, values map[string]string) (*session.MemoryStore, *mockCart, *notify.Recorder, *Synchronizer) {
	t.Helper()

	store := session.NewMemoryStore()
	for k, v := range values {
		require.NoError(t, store.Set(k, v))
	}
	cart := &mockCart{}
	recorder := &notify.Recorder{}

	return store, cart, recorder, New(store, cart, recorder, zerolog.Nop())
}

func TestSync_AddsEachEntryAndClearsLocalCart(t *testing.T) {
	store, cart, recorder, syncer := setup(t, map[string]string{
		session.KeyToken: "T",
		session.KeyCart:  `[{"product_id":1,"quantity":2},{"product_id":2,"quantity":3}]`,
	})

	ok := &client.Response{StatusCode: 200}
	first := cart.On("AddToCart", mock.Anything, uint(1), 2).Return(ok, nil).Once()
	cart.On("AddToCart", mock.Anything, uint(2), 3).Return(ok, nil).Once().NotBefore(first)

	syncer.Sync(context.Background())

	cart.AssertExpectations(t)

	_, err := store.Get(session.KeyCart)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.Equal(t, []notify.Message{
		{Text: "5 items synchronized to your account", Kind: notify.KindSuccess},
	}, recorder.Messages())
}

func TestSync_PrefersIDOverProductID(t *testing.T) {
	store, cart, _, syncer := setup(t, map[string]string{
		session.KeyToken: "T",
		session.KeyCart:  `[{"id":4,"product_id":9,"quantity":1}]`,
	})
	cart.On("AddToCart", mock.Anything, uint(4), 1).Return(&client.Response{}, nil).Once()

	count, err := syncer.sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	cart.AssertExpectations(t)

	_, err = store.Get(session.KeyCart)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSync_FailureKeepsLocalCart(t *testing.T) {
	raw := `[{"product_id":1,"quantity":2}]`
	store, cart, recorder, syncer := setup(t, map[string]string{
		session.KeyToken: "T",
		session.KeyCart:  raw,
	})
	cart.On("AddToCart", mock.Anything, uint(1), 2).Return(nil, errors.New("connection refused")).Once()

	assert.NotPanics(t, func() { syncer.Sync(context.Background()) })

	value, err := store.Get(session.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, raw, value)
	assert.Empty(t, recorder.Messages())
}

func TestSync_FailureAbortsRemainingEntries(t *testing.T) {
	_, cart, recorder, syncer := setup(t, map[string]string{
		session.KeyToken: "T",
		session.KeyCart:  `[{"product_id":1,"quantity":1},{"product_id":2,"quantity":1},{"product_id":3,"quantity":1}]`,
	})
	cart.On("AddToCart", mock.Anything, uint(1), 1).Return(&client.Response{}, nil).Once()
	cart.On("AddToCart", mock.Anything, uint(2), 1).Return(nil, errors.New("boom")).Once()

	count, err := syncer.sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, count)

	cart.AssertExpectations(t)
	cart.AssertNotCalled(t, "AddToCart", mock.Anything, uint(3), mock.Anything)
	assert.Empty(t, recorder.Messages())
}

func TestSync_NoToken(t *testing.T) {
	store, cart, recorder, syncer := setup(t, map[string]string{
		session.KeyCart: `[{"product_id":1,"quantity":2}]`,
	})

	syncer.Sync(context.Background())

	cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
	_, err := store.Get(session.KeyCart)
	assert.NoError(t, err, "local cart must survive when not authenticated")
	assert.Empty(t, recorder.Messages())
}

func TestSync_NothingToDo(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"no local cart", map[string]string{session.KeyToken: "T"}},
		{"empty list", map[string]string{session.KeyToken: "T", session.KeyCart: `[]`}},
		{"empty string", map[string]string{session.KeyToken: "T", session.KeyCart: ``}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cart, recorder, syncer := setup(t, tt.values)

			count, err := syncer.sync(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, count)
			cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, recorder.Messages())
		})
	}
}

func TestSync_CorruptLocalCart(t *testing.T) {
	store, cart, recorder, syncer := setup(t, map[string]string{
		session.KeyToken: "T",
		session.KeyCart:  `{not json`,
	})

	_, err := syncer.sync(context.Background())
	require.Error(t, err)

	cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, recorder.Messages())

	_, err = store.Get(session.KeyCart)
	assert.NoError(t, err)
}

func TestSync_ZeroQuantityTotalIsSilent(t *testing.T) {
	store, cart, recorder, syncer := setup(t, map[string]string{
		session.KeyToken: "T",
		session.KeyCart:  `[{"product_id":1,"quantity":0}]`,
	})
	cart.On("AddToCart", mock.Anything, uint(1), 0).Return(&client.Response{}, nil).Once()

	syncer.Sync(context.Background())

	_, err := store.Get(session.KeyCart)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Empty(t, recorder.Messages())
}
