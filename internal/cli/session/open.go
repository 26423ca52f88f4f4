package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/raflibima25/go-electroshop/internal/config"
)

// Backend names accepted in configuration
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
	BackendMemory  = "memory"
)

const defaultNamespace = "default"

// Open builds the store selected by cfg. The returned close function is
// never nil.
func Open(ctx context.Context, cfg config.SessionConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	switch cfg.Backend {
	case BackendFile, "":
		path := cfg.Path
		if path == "" {
			p, err := namespaceFilePath(namespace)
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		return NewFileStore(path), noop, nil

	case BackendKeyring:
		return NewKeyringStore(namespace), noop, nil

	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			p, err := DefaultSQLitePath()
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		store, err := OpenSQLiteStore(path, namespace)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case BackendRedis:
		store, err := ConnectRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, namespace)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case BackendMemory:
		return NewMemoryStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown session backend '%s', must be one of: file, keyring, sqlite, redis, memory", cfg.Backend)
	}
}

// namespaceFilePath places every non-default namespace in its own file
// next to the default session file
func namespaceFilePath(namespace string) (string, error) {
	path, err := DefaultFilePath()
	if err != nil || namespace == defaultNamespace {
		return path, err
	}
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("session-%s.json", namespace)), nil
}
