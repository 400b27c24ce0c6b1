// Package kvstore provides byte-oriented key-value backends. Each record
// collection of the application is persisted as one JSON document under a
// single key, so a backend only needs whole-value reads and writes.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Backend is the storage contract shared by every implementation.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
