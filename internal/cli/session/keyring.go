package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "electroshop-cli"

// KeyringStore persists session state in the OS keychain/credential manager
type KeyringStore struct {
	namespace string
}

// NewKeyringStore creates a keyring-backed store. Namespace separates
// sessions for different API hosts or profiles.
func NewKeyringStore(namespace string) *KeyringStore {
	return &KeyringStore{namespace: namespace}
}

// getKeyringKey returns a unique key for storing a session value per namespace
func (k *KeyringStore) getKeyringKey(key string) string {
	return fmt.Sprintf("%s-%s", k.namespace, key)
}

func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(keyringService, k.getKeyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return value, nil
}

func (k *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(keyringService, k.getKeyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) Remove(key string) error {
	if err := keyring.Delete(keyringService, k.getKeyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
