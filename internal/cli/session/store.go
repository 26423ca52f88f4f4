// Package session holds the client's persisted session state: the token,
// the admin flag, the display name and the pre-login local cart.
package session

import "errors"

// Persisted keys
const (
	KeyToken    = "token"
	KeyIsAdmin  = "isAdmin"
	KeyUserName = "userName"
	KeyCart     = "cart"
)

// ErrNotFound is returned by Store.Get when the key has no value
var ErrNotFound = errors.New("session key not found")

// Store is a string key-value store for session state.
// Remove must return nil when the key is already absent.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Role is the user's role, derived from the admin flag
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) String() string {
	return string(r)
}
