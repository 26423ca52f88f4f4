// Package cartsync moves the pre-login local cart into the server cart.
//
// A sync is all-or-abandon: items are added one at a time, the first failure
// stops the loop, and the local cart is only cleared once every item went
// through. Nothing is retried and partial progress is not reported. Items
// already added before a failure stay in the server cart while the local
// cart keeps all of them.
package cartsync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raflibima25/go-electroshop/internal/cli/client"
	"github.com/raflibima25/go-electroshop/internal/cli/notify"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// CartAdder is the one server operation sync needs
type CartAdder interface {
	AddToCart(ctx context.Context, productID uint, quantity int) (*client.Response, error)
}

// Synchronizer merges the local cart into the authenticated server cart
type Synchronizer struct {
	store    session.Store
	reader   *session.Reader
	cart     CartAdder
	notifier notify.Notifier
	logger   zerolog.Logger
}

// New creates a Synchronizer
func New(store session.Store, cart CartAdder, notifier notify.Notifier, logger zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		store:    store,
		reader:   session.NewReader(store, logger),
		cart:     cart,
		notifier: notifier,
		logger:   logger,
	}
}

// Sync runs one synchronization attempt. Errors are logged, never returned.
func (s *Synchronizer) Sync(ctx context.Context) {
	count, err := s.sync(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error syncing cart after login")
		return
	}

	if count > 0 {
		s.logger.Info().Int("items", count).Msg("Local cart synchronized")
	}
}

// sync returns the number of items added
func (s *Synchronizer) sync(ctx context.Context) (int, error) {
	if !s.reader.IsAuthenticated() {
		return 0, nil
	}

	entries, err := LoadLocal(s.store)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	syncCount := 0
	for _, entry := range entries {
		if _, err := s.cart.AddToCart(ctx, entry.Product(), entry.Quantity); err != nil {
			return 0, fmt.Errorf("failed to add product %d to cart: %w", entry.Product(), err)
		}
		syncCount += entry.Quantity
	}

	if err := s.store.Remove(session.KeyCart); err != nil {
		return 0, fmt.Errorf("failed to clear local cart: %w", err)
	}

	if syncCount > 0 {
		s.notifier.Notify(fmt.Sprintf("%d items synchronized to your account", syncCount), notify.KindSuccess)
	}

	return syncCount, nil
}
