// Package token defines expiring token tables mapping an opaque token to the
// user it was issued for. Sessions and password-reset tokens both use it.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the token is unknown, expired or already consumed.
var ErrNotFound = errors.New("token not found")

// Store defines behavior for an expiring token table.
type Store interface {
	// Put records token for userID. A non-positive ttl means no expiry.
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	// Get returns the user the token was issued for, or ErrNotFound.
	Get(ctx context.Context, token string) (string, error)
	// Delete removes a single token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
	// DeleteUser removes every token issued for userID.
	DeleteUser(ctx context.Context, userID string) error
}

// New returns a fresh random token.
func New() string {
	return uuid.NewString()
}
