package sessionstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("session value not found")

// Store keeps per-browser-session values between requests.
type Store interface {
	// Get returns the value stored under key for the session sid.
	Get(ctx context.Context, sid, key string) ([]byte, error)

	// Set stores value under key for the session sid.
	Set(ctx context.Context, sid, key string, value []byte) error

	// Delete removes key from the session sid. Deleting an absent key is not an error.
	Delete(ctx context.Context, sid, key string) error
}
