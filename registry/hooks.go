package registry

// Reasons passed to Hooks.SelfHeal.
const (
	ReasonCorrupt     = "corrupt"
	ReasonStale       = "stale"
	ReasonUndecodable = "undecodable"
)

// Hooks receive registry events. Implementations MUST be cheap and
// non-blocking.
type Hooks interface {
	// A corrupt, stale or undecodable entry was deleted on read.
	SelfHeal(key, reason string)

	// The revision store failed a Bump or Snapshot.
	RevisionError(key string, err error)

	// The provider declined to store an entry.
	StoreRejected(key string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)     {}
func (NopHooks) RevisionError(string, error) {}
func (NopHooks) StoreRejected(string)        {}
