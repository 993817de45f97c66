// Package genstore keeps per-key revision counters for the schema registry.
// A registry entry is current only while its stored revision matches the
// counter; bumping the counter retires every older copy in one step.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where revisions live. Use Local for a single process
// and Redis when producers and consumers run in different processes.
type GenStore interface {
	// Snapshot returns the current revision; missing => 0.
	Snapshot(ctx context.Context, key string) (uint64, error)
	// Bump atomically increments and returns the new revision.
	Bump(ctx context.Context, key string) (uint64, error)
	// Cleanup prunes counters idle longer than retention, if applicable.
	Cleanup(retention time.Duration)
	// Close releases resources.
	Close(context.Context) error
}
