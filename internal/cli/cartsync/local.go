package cartsync

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raflibima25/go-electroshop/internal/cli/session"
)

// Entry is one line of the pre-login local cart. Older clients stored the
// product under "id", newer ones under "product_id".
type Entry struct {
	ID        uint `json:"id,omitempty" yaml:"id,omitempty"`
	ProductID uint `json:"product_id,omitempty" yaml:"product_id,omitempty"`
	Quantity  int  `json:"quantity" yaml:"quantity"`
}

// Product returns the entry's product identifier, preferring ID
func (e Entry) Product() uint {
	if e.ID != 0 {
		return e.ID
	}
	return e.ProductID
}

// LoadLocal reads the local cart. A missing key yields an empty cart.
func LoadLocal(store session.Store) ([]Entry, error) {
	raw, err := store.Get(session.KeyCart)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local cart: %w", err)
	}

	if raw == "" {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse local cart: %w", err)
	}

	return entries, nil
}

// SaveLocal replaces the local cart
func SaveLocal(store session.Store, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal local cart: %w", err)
	}

	if err := store.Set(session.KeyCart, string(data)); err != nil {
		return fmt.Errorf("failed to write local cart: %w", err)
	}

	return nil
}

// AddLocal adds quantity of a product to the local cart, merging with an
// existing line for the same product
func AddLocal(store session.Store, productID uint, quantity int) ([]Entry, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product id is required")
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	entries, err := LoadLocal(store)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range entries {
		if entries[i].Product() == productID {
			entries[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		entries = append(entries, Entry{ProductID: productID, Quantity: quantity})
	}

	if err := SaveLocal(store, entries); err != nil {
		return nil, err
	}

	return entries, nil
}
