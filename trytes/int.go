package trytes

import "fmt"

type intRange struct {
	min, max int64
	offset   int64 // added before the unsigned encoding
}

var intRanges = map[Type]intRange{
	Int8:   {min: -1 << 7, max: 1<<7 - 1, offset: 1 << 7},
	Uint8:  {min: 0, max: 1<<8 - 1},
	Int16:  {min: -1 << 15, max: 1<<15 - 1, offset: 1 << 15},
	Uint16: {min: 0, max: 1<<16 - 1},
	Int32:  {min: -1 << 31, max: 1<<31 - 1, offset: 1 << 31},
	Uint32: {min: 0, max: 1<<32 - 1},
}

// Range returns the inclusive value range of integer type t.
func Range(t Type) (lo, hi int64, ok bool) {
	r, ok := intRanges[t]
	return r.min, r.max, ok
}

// Clamp limits v to the value range of integer type t.
func Clamp(t Type, v int64) int64 {
	r, ok := intRanges[t]
	if !ok {
		return v
	}
	switch {
	case v < r.min:
		return r.min
	case v > r.max:
		return r.max
	}
	return v
}

// EncodeInt encodes v as the fixed-width integer type t.
// Signed types are stored offset by 2^(bits-1).
func EncodeInt(t Type, v int64) (string, error) {
	r, ok := intRanges[t]
	if !ok {
		return "", fmt.Errorf("%w: %q is not an integer type", ErrUnknownType, t)
	}
	if v < r.min || v > r.max {
		return "", fmt.Errorf("%w: %d not in [%d, %d] for %s", ErrOutOfRange, v, r.min, r.max, t)
	}
	return encodeUint(uint64(v+r.offset), sizes[t]), nil
}

// DecodeInt decodes the leading Size(t) symbols of s as integer type t.
func DecodeInt(t Type, s string) (int64, error) {
	r, ok := intRanges[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an integer type", ErrUnknownType, t)
	}
	w := sizes[t]
	if err := need(s, w); err != nil {
		return 0, err
	}
	u, err := decodeUint(s[:w])
	if err != nil {
		return 0, err
	}
	v := int64(u) - r.offset
	if v < r.min || v > r.max {
		return 0, fmt.Errorf("%w: %q decodes to %d for %s", ErrOutOfRange, s[:w], v, t)
	}
	return v, nil
}
