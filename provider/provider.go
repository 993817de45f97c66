// Package provider defines the byte store behind the schema registry.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// bytes passed to Set. The keyspace "schema:<ns>:" belongs to the registry;
// foreign values found there fail wire validation and are deleted.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs, safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. cost is a hint for admission-based stores and may be
	// ignored. ok=false means the store declined the write.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key; deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}
