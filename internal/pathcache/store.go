// Package pathcache persists precomputed estimator data keyed by the identity
// of the terrain and movement classes it was computed from.
package pathcache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no entry exists for a key.
var ErrNotFound = errors.New("pathcache: entry not found")

// Store is an opaque key/payload store.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}
