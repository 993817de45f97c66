// Package sloghooks logs buffer and registry events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/registry"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	FallbackEvery  uint64
	OverLimitEvery uint64
	// Optional key redactor for registry keys. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fallbackCtr  atomic.Uint64
	overLimitCtr atomic.Uint64
}

var (
	_ tb.Hooks       = (*Hooks)(nil)
	_ registry.Hooks = (*Hooks)(nil)
)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Fallback(field, reason string) {
	if h.l == nil || !sample(h.opts.FallbackEvery, &h.fallbackCtr) {
		return
	}
	h.l.Debug("trytebuffer.fallback",
		"field", field,
		"reason", reason)
}

func (h *Hooks) OverLimit(length, limit int) {
	if h.l == nil || !sample(h.opts.OverLimitEvery, &h.overLimitCtr) {
		return
	}
	h.l.Warn("trytebuffer.over_limit",
		"length", length,
		"limit", limit)
}

func (h *Hooks) DecodeRejected(field string, err error) {
	if h.l == nil {
		return
	}
	h.l.Info("trytebuffer.decode_rejected",
		"field", field,
		"err", err)
}

func (h *Hooks) SelfHeal(key, reason string) {
	if h.l == nil {
		return
	}
	h.l.Debug("trytebuffer.registry.self_heal",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) RevisionError(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("trytebuffer.registry.revision_error",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) StoreRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("trytebuffer.registry.store_rejected",
		"key", h.redact(key))
}
