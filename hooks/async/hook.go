// Package asynchook moves hook calls off the Encode, Decode and registry
// paths onto a small worker pool. Events are dropped when the queue is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{FallbackEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	buf, _ := trytebuffer.New(schema, trytebuffer.Options{Hooks: hooks})
//	reg, _ := registry.New(registry.Options{Provider: p, Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/registry"
)

// Inner is what the wrapped hooks must implement: buffer and registry events.
type Inner interface {
	tb.Hooks
	registry.Hooks
}

type Hooks struct {
	inner   Inner
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var (
	_ tb.Hooks       = (*Hooks)(nil)
	_ registry.Hooks = (*Hooks)(nil)
)

func New(inner Inner, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Later events are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped counts events lost to a full queue or a closed pool.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Fallback(field, reason string) { h.try(func() { h.inner.Fallback(field, reason) }) }
func (h *Hooks) OverLimit(length, limit int)   { h.try(func() { h.inner.OverLimit(length, limit) }) }
func (h *Hooks) DecodeRejected(field string, err error) {
	h.try(func() { h.inner.DecodeRejected(field, err) })
}
func (h *Hooks) SelfHeal(key, reason string) { h.try(func() { h.inner.SelfHeal(key, reason) }) }
func (h *Hooks) RevisionError(key string, err error) {
	h.try(func() { h.inner.RevisionError(key, err) })
}
func (h *Hooks) StoreRejected(key string) { h.try(func() { h.inner.StoreRejected(key) }) }
