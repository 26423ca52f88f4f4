package session

import (
	"errors"

	"github.com/rs/zerolog"
)

// DefaultDisplayName is shown when no user name is stored
const DefaultDisplayName = "User"

// Reader derives authentication state from a Store. It never writes.
// Store failures read as "absent".
type Reader struct {
	store  Store
	logger zerolog.Logger
}

// NewReader creates a Reader over store
func NewReader(store Store, logger zerolog.Logger) *Reader {
	return &Reader{store: store, logger: logger}
}

func (r *Reader) lookup(key string) (string, bool) {
	value, err := r.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Debug().Err(err).Str("key", key).Msg("Session store read failed, treating as absent")
		}
		return "", false
	}
	return value, true
}

// Token returns the stored access token and whether one is present
func (r *Reader) Token() (string, bool) {
	return r.lookup(KeyToken)
}

// IsAuthenticated reports whether a token is present
func (r *Reader) IsAuthenticated() bool {
	_, ok := r.lookup(KeyToken)
	return ok
}

// IsAdmin reports whether the stored admin flag is exactly "true"
func (r *Reader) IsAdmin() bool {
	value, ok := r.lookup(KeyIsAdmin)
	return ok && value == "true"
}

// Role returns RoleAdmin for admins and RoleUser otherwise
func (r *Reader) Role() Role {
	if r.IsAdmin() {
		return RoleAdmin
	}
	return RoleUser
}

// DisplayName returns the stored user name or DefaultDisplayName
func (r *Reader) DisplayName() string {
	value, ok := r.lookup(KeyUserName)
	if !ok || value == "" {
		return DefaultDisplayName
	}
	return value
}
