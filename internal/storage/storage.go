// Package storage is the key-value persistence layer behind the conversation
// store. Backends know nothing about conversations; they hold text blobs by key.
package storage

import (
	"context"
	"errors"
)

// Storage gets, sets and removes text values by key. Get reports absence with
// ok=false and a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Closer is implemented by backends holding connections or file handles.
type Closer interface {
	Close() error
}

// ErrUnavailable is returned by reads whose backend failed. It is never
// reported as absence, so callers do not overwrite data they could not read.
var ErrUnavailable = errors.New("storage: backend unavailable")

// Close closes s if the backend holds resources.
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
