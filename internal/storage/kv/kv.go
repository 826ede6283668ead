// Package kv holds the durable key/value backends snapshots are written to.
// Writes are whole-value overwrites; the last write for a key wins.
package kv

import "context"

// Store is the read/write contract of a durable key/value backend.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
