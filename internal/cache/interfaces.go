package cache

import (
	"context"
	"time"
)

// Store is the key-value store behind session tokens. The abstraction
// allows swapping between the in-memory store (development, tests,
// single-instance deployments) and Redis (production) without changing the
// session logic.
type Store interface {
	// Get retrieves a value by key. Returns ErrMiss if not found or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// StoreError is a sentinel error type for store failures.
type StoreError string

func (e StoreError) Error() string { return string(e) }

// ErrMiss indicates the key was not found.
const ErrMiss StoreError = "key not found"
