package trytes

import (
	"fmt"
	"reflect"
	"strings"
)

// Elements flattens a slice or array value into []any. nil yields an empty
// result; any other non-sequence is an error.
func Elements(v any) ([]any, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("trytes: not a sequence: %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// EncodeArray encodes values as a 2-symbol element count followed by each
// element encoded as elem.
func EncodeArray(values any, elem Type) (string, error) {
	if !elem.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, elem)
	}
	items, err := Elements(values)
	if err != nil {
		return "", err
	}
	if len(items) > MaxArrayLen {
		return "", fmt.Errorf("%w: %d elements exceeds %d", ErrOutOfRange, len(items), MaxArrayLen)
	}
	count, err := EncodeInt(Uint8, int64(len(items)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(count)
	for i, item := range items {
		enc, err := EncodeValue(elem, item)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		b.WriteString(enc)
	}
	return b.String(), nil
}

// DecodeArray decodes a counted array of elem from the front of s.
// Symbols after the last element are ignored.
func DecodeArray(s string, elem Type) ([]any, error) {
	if !elem.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, elem)
	}
	n, err := DecodeInt(Uint8, s)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	off := ArrayPrefixSize
	for i := 0; i < int(n); i++ {
		v, used, err := DecodeValue(elem, s[off:])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
		off += used
	}
	return out, nil
}
