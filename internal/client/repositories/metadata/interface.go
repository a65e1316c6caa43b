// Package metadata is the client's durable key-value slot store, backed by
// the "metadata" table of the local SQLite database.
package metadata

import (
	"context"
)

// Repository stores opaque values by key.
//
// Get returns (nil, nil) when the key is absent: absence is a normal state
// (e.g. "logged out"), not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
