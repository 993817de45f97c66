package trytebuffer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/unkn0wn-root/trytebuffer/trytes"
)

// Buffer encodes records to tryte strings and back for one fixed schema.
// A Buffer is safe for concurrent use; LastEncodedLength and OverLimit
// reflect whichever Encode finished last.
type Buffer struct {
	schema Schema
	fields []compiledField
	limit  int
	mode   Mode
	log    Logger
	hooks  Hooks

	lastLen atomic.Int64
	over    atomic.Bool
}

func newBuffer(schema Schema, opts Options) (*Buffer, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	if opts.Mode == Strict {
		if err := schema.Validate(); err != nil {
			return nil, err
		}
	}

	b := &Buffer{
		schema: schema.Clone(),
		mode:   opts.Mode,
	}
	b.log = coalesce[Logger](opts.Logger, NopLogger{})
	b.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	b.limit = coalesce(opts.SymbolLimit, DefaultSymbolLimit)
	if b.limit < 0 {
		b.limit = 0
	}

	c := &compiler{strict: b.mode == Strict, degrade: b.degrade}
	b.fields = c.compile(b.schema)

	b.log.Debug("buffer compiled", Fields{"fields": len(b.fields), "limit": b.limit, "mode": b.mode.String()})
	return b, nil
}

// Schema returns a copy of the buffer's schema.
func (b *Buffer) Schema() Schema { return b.schema.Clone() }

// Mode reports the buffer's mode.
func (b *Buffer) Mode() Mode { return b.mode }

// SymbolLimit returns the configured limit; 0 means unlimited.
func (b *Buffer) SymbolLimit() int { return b.limit }

// LastEncodedLength returns the length of the most recent successful encode.
func (b *Buffer) LastEncodedLength() int { return int(b.lastLen.Load()) }

// OverLimit reports whether the most recent successful encode exceeded the limit.
func (b *Buffer) OverLimit() bool { return b.over.Load() }

// Encode returns the tryte encoding of r. Keys not in the schema are ignored.
func (b *Buffer) Encode(r Record) (string, error) {
	res, err := b.EncodeResult(r)
	return res.Symbols, err
}

// EncodeResult encodes r and returns the symbols along with their length and
// limit status, independent of any concurrent Encode on the same buffer.
func (b *Buffer) EncodeResult(r Record) (Result, error) {
	var sb strings.Builder
	for _, f := range b.fields {
		v, ok := r[f.name]
		if !ok || v == nil {
			if b.mode == Strict {
				return Result{}, &FieldError{Field: f.name, Op: "encode", Err: ErrMissingField}
			}
			if !ok && f.kind != kindFallback {
				b.degrade(f.name, ReasonMissingField, nil)
			}
		}
		out, err := f.encode(v)
		if err != nil {
			return Result{}, &FieldError{Field: f.name, Op: "encode", Err: err}
		}
		sb.WriteString(out)
	}

	res := Result{Symbols: sb.String()}
	res.Length = len(res.Symbols)
	res.OverLimit = b.limit > 0 && res.Length > b.limit
	b.lastLen.Store(int64(res.Length))
	b.over.Store(res.OverLimit)

	if res.OverLimit {
		b.log.Warn("encoding over symbol limit", Fields{"length": res.Length, "limit": b.limit})
		b.hooks.OverLimit(res.Length, b.limit)
	}
	b.log.Debug("encoded record", Fields{"fields": len(b.fields), "length": res.Length})
	return res, nil
}

// Decode parses symbols field by field in schema order. Input that ends
// before the last field is rejected. Symbols left after the last field are
// discarded, or rejected with ErrTrailingSymbols in strict mode.
func (b *Buffer) Decode(symbols string) (Record, error) {
	out := make(Record, len(b.fields))
	rest := symbols
	for _, f := range b.fields {
		n, v, err := f.decode(rest)
		if err == nil && n > len(rest) {
			err = fmt.Errorf("%w: field claims %d symbols, %d left", trytes.ErrShort, n, len(rest))
		}
		if err != nil {
			b.log.Debug("decode rejected", Fields{"field": f.name, "err": err})
			b.hooks.DecodeRejected(f.name, err)
			return nil, &FieldError{Field: f.name, Op: "decode", Err: err}
		}
		out[f.name] = v
		rest = rest[n:]
	}

	if len(rest) > 0 {
		if b.mode == Strict {
			err := fmt.Errorf("%w: %d after last field", ErrTrailingSymbols, len(rest))
			b.hooks.DecodeRejected("", err)
			return nil, err
		}
		b.log.Debug("discarded trailing symbols", Fields{"count": len(rest)})
	}
	b.log.Debug("decoded record", Fields{"fields": len(b.fields), "length": len(symbols) - len(rest)})
	return out, nil
}

// FieldLayout describes one compiled field.
type FieldLayout struct {
	Name  string
	Kind  string
	Width int // fixed symbol width, or -1 when self-framing or empty
}

// Layout lists the compiled fields in wire order.
func (b *Buffer) Layout() []FieldLayout {
	out := make([]FieldLayout, len(b.fields))
	for i, f := range b.fields {
		d := b.schema[i].FieldDescriptor
		l := FieldLayout{Name: f.name, Kind: f.kind.String(), Width: -1}
		switch f.kind {
		case kindEnum:
			l.Width = trytes.EnumSize
		case kindFallback:
			l.Width = 0
		case kindInteger, kindBool, kindDate, kindGeo:
			l.Width, _ = trytes.Size(d.Type)
		}
		out[i] = l
	}
	return out
}

func (b *Buffer) degrade(field, reason string, err error) {
	f := Fields{"field": field, "reason": reason}
	if err != nil {
		f["err"] = err
	}
	b.log.Warn("lenient fallback", f)
	b.hooks.Fallback(field, reason)
}

func (k fieldKind) String() string {
	switch k {
	case kindArray:
		return "array"
	case kindEnum:
		return "enum"
	case kindString:
		return "string"
	case kindInteger:
		return "integer"
	case kindBool:
		return "bool"
	case kindDate:
		return "date"
	case kindGeo:
		return "geo"
	}
	return "fallback"
}
