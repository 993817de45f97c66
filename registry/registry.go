// Package registry shares schemas by name between the processes that encode
// and decode with them. Entries live in a provider.Provider, framed with the
// revision that wrote them; a genstore.GenStore holds the current revision
// of each name, so a Register or Remove retires every older copy at once.
//
// Entry key:
//
//	schema:<ns>:<name>
//
// Reads validate the frame and the revision. Corrupt, stale or undecodable
// entries are deleted and reported as not found.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/codec"
	"github.com/unkn0wn-root/trytebuffer/genstore"
	"github.com/unkn0wn-root/trytebuffer/internal/keys"
	"github.com/unkn0wn-root/trytebuffer/internal/wire"
	"github.com/unkn0wn-root/trytebuffer/provider"
)

const (
	defaultRevRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour
)

var (
	ErrNotFound    = errors.New("trytebuffer: schema not found")
	ErrRejected    = errors.New("trytebuffer: provider rejected schema entry")
	ErrNilProvider = errors.New("trytebuffer: registry provider is required")
	ErrName        = keys.ErrName
)

type Options struct {
	Namespace string            // default "default"
	Provider  provider.Provider // required
	Codec     codec.Codec[tb.Schema]
	GenStore  genstore.GenStore // default genstore.NewLocal with hourly sweep

	// Buffer configures the buffers returned by Registry.Buffer. In strict
	// mode Register also refuses schemas that fail validation.
	Buffer tb.Options

	TTL           time.Duration // entry TTL; 0 = no expiry
	MaxEntryBytes int           // reject larger payloads on read; 0 = unlimited

	Logger tb.Logger
	Hooks  Hooks
}

type compiled struct {
	rev uint64
	fp  string
	buf *tb.Buffer
}

type Registry struct {
	ns    string
	p     provider.Provider
	codec codec.Codec[tb.Schema]
	gens  genstore.GenStore
	bopts tb.Options
	ttl   time.Duration
	log   tb.Logger
	hooks Hooks

	mu        sync.Mutex
	bufs      map[string]compiled
	closeOnce sync.Once
}

func New(opts Options) (*Registry, error) {
	if opts.Provider == nil {
		return nil, ErrNilProvider
	}
	r := &Registry{
		ns:    coalesce(opts.Namespace, "default"),
		p:     opts.Provider,
		bopts: opts.Buffer,
		ttl:   opts.TTL,
		bufs:  make(map[string]compiled),
	}
	r.log = coalesce[tb.Logger](opts.Logger, tb.NopLogger{})
	r.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	r.codec = opts.Codec
	if r.codec == nil {
		r.codec = codec.JSON[tb.Schema]{}
	}
	if opts.MaxEntryBytes > 0 {
		r.codec = codec.LimitCodec[tb.Schema]{Inner: r.codec, MaxDecode: opts.MaxEntryBytes}
	}

	r.gens = opts.GenStore
	if r.gens == nil {
		r.gens = genstore.NewLocal(defaultSweep, defaultRevRetention)
	}
	return r, nil
}

// Namespace returns the registry's key namespace.
func (r *Registry) Namespace() string { return r.ns }

// Register stores s under name and returns its new revision. Readers holding
// an older revision see it retired on their next lookup.
func (r *Registry) Register(ctx context.Context, name string, s tb.Schema) (uint64, error) {
	if err := keys.Check(name); err != nil {
		return 0, err
	}
	if s == nil {
		return 0, tb.ErrNilSchema
	}
	if r.bopts.Mode == tb.Strict {
		if err := s.Validate(); err != nil {
			return 0, err
		}
	}
	payload, err := r.codec.Encode(s)
	if err != nil {
		return 0, fmt.Errorf("registry: encode %q: %w", name, err)
	}

	k := keys.Entry(r.ns, name)
	rev, err := r.gens.Bump(ctx, k)
	if err != nil {
		r.hooks.RevisionError(k, err)
		return 0, fmt.Errorf("registry: bump %q: %w", name, err)
	}
	entry := wire.Encode(rev, payload)
	ok, err := r.p.Set(ctx, k, entry, int64(len(entry)), r.ttl)
	if err != nil {
		return 0, err
	}
	if !ok {
		r.hooks.StoreRejected(k)
		return 0, fmt.Errorf("%w: %q", ErrRejected, name)
	}
	r.log.Debug("schema registered", tb.Fields{
		"name": name, "rev": rev, "fields": len(s), "fingerprint": keys.Fingerprint(payload),
	})
	return rev, nil
}

// Schema returns the current schema registered under name and its revision.
func (r *Registry) Schema(ctx context.Context, name string) (tb.Schema, uint64, error) {
	e, err := r.load(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	return e.schema, e.rev, nil
}

// Buffer returns a compiled buffer for name. Buffers are reused until the
// schema's revision or content changes.
func (r *Registry) Buffer(ctx context.Context, name string) (*tb.Buffer, error) {
	e, err := r.load(ctx, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.bufs[name]; ok && c.rev == e.rev && c.fp == e.fp {
		return c.buf, nil
	}
	b, err := tb.New(e.schema, r.bopts)
	if err != nil {
		return nil, fmt.Errorf("registry: compile %q: %w", name, err)
	}
	r.bufs[name] = compiled{rev: e.rev, fp: e.fp, buf: b}
	r.log.Debug("schema compiled", tb.Fields{"name": name, "rev": e.rev})
	return b, nil
}

// Fingerprint returns a short digest of the registered schema's encoding.
// Two processes with equal fingerprints agree on the wire layout.
func (r *Registry) Fingerprint(ctx context.Context, name string) (string, error) {
	e, err := r.load(ctx, name)
	if err != nil {
		return "", err
	}
	return e.fp, nil
}

// Revision returns the current revision of name; 0 if never registered.
func (r *Registry) Revision(ctx context.Context, name string) (uint64, error) {
	if err := keys.Check(name); err != nil {
		return 0, err
	}
	return r.gens.Snapshot(ctx, keys.Entry(r.ns, name))
}

// Remove retires name. The revision is bumped before the entry is deleted,
// so a concurrent reader never resurrects it.
func (r *Registry) Remove(ctx context.Context, name string) error {
	if err := keys.Check(name); err != nil {
		return err
	}
	k := keys.Entry(r.ns, name)
	rev, bumpErr := r.gens.Bump(ctx, k)
	if bumpErr != nil {
		r.hooks.RevisionError(k, bumpErr)
	}
	delErr := r.p.Del(ctx, k)

	r.mu.Lock()
	delete(r.bufs, name)
	r.mu.Unlock()

	if bumpErr != nil || delErr != nil {
		r.log.Warn("schema remove incomplete", tb.Fields{"name": name, "bump_err": bumpErr, "del_err": delErr})
		return errors.Join(bumpErr, delErr)
	}
	r.log.Debug("schema removed", tb.Fields{"name": name, "rev": rev})
	return nil
}

// Close releases the revision store and the provider. Safe to call more
// than once; only the first call closes anything.
func (r *Registry) Close(ctx context.Context) error {
	var err error
	r.closeOnce.Do(func() {
		err = errors.Join(r.gens.Close(ctx), r.p.Close(ctx))
	})
	return err
}

type loaded struct {
	schema tb.Schema
	rev    uint64
	fp     string
}

func (r *Registry) load(ctx context.Context, name string) (loaded, error) {
	if err := keys.Check(name); err != nil {
		return loaded{}, err
	}
	k := keys.Entry(r.ns, name)
	raw, ok, err := r.p.Get(ctx, k)
	if err != nil {
		return loaded{}, err
	}
	if !ok {
		return loaded{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	rev, payload, err := wire.Decode(raw)
	if err != nil {
		return loaded{}, r.heal(ctx, k, name, ReasonCorrupt)
	}
	cur, err := r.gens.Snapshot(ctx, k)
	if err != nil {
		r.hooks.RevisionError(k, err)
		return loaded{}, fmt.Errorf("registry: revision of %q: %w", name, err)
	}
	if rev != cur {
		return loaded{}, r.heal(ctx, k, name, ReasonStale)
	}
	s, err := r.codec.Decode(payload)
	if err != nil {
		return loaded{}, r.heal(ctx, k, name, ReasonUndecodable)
	}
	return loaded{schema: s, rev: rev, fp: keys.Fingerprint(payload)}, nil
}

// heal deletes a bad entry and reports it as missing.
func (r *Registry) heal(ctx context.Context, key, name, reason string) error {
	if err := r.p.Del(ctx, key); err != nil {
		r.log.Warn("self-heal delete failed", tb.Fields{"name": name, "reason": reason, "err": err})
	}
	r.hooks.SelfHeal(key, reason)
	r.log.Debug("self-healed schema entry", tb.Fields{"name": name, "reason": reason})
	return fmt.Errorf("%w: %q (%s entry dropped)", ErrNotFound, name, reason)
}

func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
