// Package promhooks counts buffer and registry events with Prometheus.
//
//	h := promhooks.New(prometheus.DefaultRegisterer, "app")
//	buf, _ := trytebuffer.New(schema, trytebuffer.Options{Hooks: h})
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/registry"
)

type Hooks struct {
	fallbacks   *prometheus.CounterVec
	overLimit   prometheus.Counter
	overBy      prometheus.Histogram
	rejected    *prometheus.CounterVec
	selfHeals   *prometheus.CounterVec
	revErrors   prometheus.Counter
	storeReject prometheus.Counter
}

var (
	_ tb.Hooks       = (*Hooks)(nil)
	_ registry.Hooks = (*Hooks)(nil)
)

// New builds the collectors under namespace and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	h := &Hooks{
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "trytebuffer",
				Name:      "fallbacks_total",
				Help:      "Fields degraded by lenient buffers.",
			},
			[]string{"field", "reason"},
		),
		overLimit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trytebuffer",
			Name:      "over_limit_total",
			Help:      "Encodings longer than the symbol limit.",
		}),
		overBy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trytebuffer",
			Name:      "over_limit_symbols",
			Help:      "Symbols past the limit per oversize encoding.",
			Buckets:   prometheus.ExponentialBuckets(1, 3, 8),
		}),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "trytebuffer",
				Name:      "decode_rejected_total",
				Help:      "Decodes that failed, by field.",
			},
			[]string{"field"},
		),
		selfHeals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "trytebuffer_registry",
				Name:      "self_heals_total",
				Help:      "Registry entries dropped on read.",
			},
			[]string{"reason"},
		),
		revErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trytebuffer_registry",
			Name:      "revision_errors_total",
			Help:      "Revision store failures.",
		}),
		storeReject: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trytebuffer_registry",
			Name:      "store_rejected_total",
			Help:      "Schema entries the provider declined to store.",
		}),
	}
	if reg != nil {
		reg.MustRegister(h.fallbacks, h.overLimit, h.overBy, h.rejected, h.selfHeals, h.revErrors, h.storeReject)
	}
	return h
}

func (h *Hooks) Fallback(field, reason string) { h.fallbacks.WithLabelValues(field, reason).Inc() }

func (h *Hooks) OverLimit(length, limit int) {
	h.overLimit.Inc()
	h.overBy.Observe(float64(length - limit))
}

// DecodeRejected labels trailing-symbol rejections with field "".
func (h *Hooks) DecodeRejected(field string, _ error) { h.rejected.WithLabelValues(field).Inc() }

// SelfHeal counts by reason only; keys are unbounded.
func (h *Hooks) SelfHeal(_, reason string)   { h.selfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) RevisionError(string, error) { h.revErrors.Inc() }
func (h *Hooks) StoreRejected(string)        { h.storeReject.Inc() }
