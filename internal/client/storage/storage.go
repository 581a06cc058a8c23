// Package storage holds the durable key/value backends the client keeps its
// session entry in.
package storage

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys that cannot be mapped onto a backend.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage persists small opaque entries by name.
//
// Get reports found=false for a missing key. Delete of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
