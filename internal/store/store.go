package store

import (
	"context"
	"errors"
	"time"

	"tailor/internal/session"
)

// ErrNotFound covers both unknown and expired session ids.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the fixed session lifetime, re-applied on every write.
const DefaultTTL = time.Hour

// Store persists sessions keyed by id. Implementations must make Update
// atomic per key so that concurrent writers against the same session cannot
// lose updates.
type Store interface {
	// Put saves the session and resets its TTL.
	Put(ctx context.Context, s *session.Session) error

	// Get returns a copy of the stored session, or ErrNotFound.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Update loads the session, applies mutate, and persists the result
	// atomically with respect to other Update calls for the same id.
	// A non-nil error from mutate aborts the update and is returned as is.
	Update(ctx context.Context, id string, mutate func(*session.Session) error) (*session.Session, error)

	// Delete removes the session, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	Close() error
}
