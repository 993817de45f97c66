// Package trytes implements the fixed-alphabet symbol arithmetic used by
// trytebuffer: fixed-width integers, booleans, dates, geo cells, transliterated
// strings and homogeneous arrays, all expressed in the 27-symbol tryte alphabet.
//
// Every fixed-width type has a table-known width (see Size). Variable-width
// values (strings, arrays) are self-framing: a fixed-width length or count
// prefix followed by the payload.
package trytes

import (
	"errors"
	"fmt"
)

// Alphabet maps symbol values 0..26 to their characters. '9' is zero.
const Alphabet = "9ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const radix = 27

// Type names a primitive symbol type.
type Type string

const (
	Int8   Type = "int8"
	Uint8  Type = "uint8"
	Int16  Type = "int16"
	Uint16 Type = "uint16"
	Int32  Type = "int32"
	Uint32 Type = "uint32"
	Bool   Type = "bool"
	Date   Type = "date"
	Geo    Type = "geo"
	String Type = "string"
)

// Prefix widths for variable-width encodings.
const (
	StringPrefixSize = 4 // uint16 payload length
	ArrayPrefixSize  = 2 // uint8 element count
	EnumSize         = 2 // uint8 index
)

// MaxArrayLen is the largest element count an array prefix can carry.
const MaxArrayLen = 255

// MaxStringSymbols is the largest string payload, in symbols.
const MaxStringSymbols = 65535

var (
	ErrShort         = errors.New("trytes: input too short")
	ErrInvalidSymbol = errors.New("trytes: invalid symbol")
	ErrOutOfRange    = errors.New("trytes: value out of range")
	ErrUnknownType   = errors.New("trytes: unknown type")
)

var sizes = map[Type]int{
	Int8:   2,
	Uint8:  2,
	Int16:  4,
	Uint16: 4,
	Int32:  7,
	Uint32: 7,
	Bool:   1,
	Date:   7,
	Geo:    12,
}

// Size returns the fixed symbol width of t. Strings and unknown types are not
// fixed-width and report ok=false.
func Size(t Type) (n int, ok bool) {
	n, ok = sizes[t]
	return n, ok
}

// Known reports whether t is one of the primitive types.
func (t Type) Known() bool {
	if t == String {
		return true
	}
	_, ok := sizes[t]
	return ok
}

// Integer reports whether t is one of the fixed-width integer types.
func (t Type) Integer() bool {
	_, ok := intRanges[t]
	return ok
}

var symbolValue = func() (tbl [256]int8) {
	for i := range tbl {
		tbl[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		tbl[Alphabet[i]] = int8(i)
	}
	return tbl
}()

// Valid reports whether every byte of s is an alphabet symbol.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if symbolValue[s[i]] < 0 {
			return false
		}
	}
	return true
}

// encodeUint writes v as exactly width symbols. The caller guarantees v fits.
func encodeUint(v uint64, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = Alphabet[v%radix]
		v /= radix
	}
	return string(buf)
}

// decodeUint reads all of s as one unsigned number.
func decodeUint(s string) (uint64, error) {
	var v uint64
	for i := 0; i < len(s); i++ {
		d := symbolValue[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("%w %q at offset %d", ErrInvalidSymbol, s[i], i)
		}
		v = v*radix + uint64(d)
	}
	return v, nil
}

// need returns ErrShort when s holds fewer than n symbols.
func need(s string, n int) error {
	if len(s) < n {
		return fmt.Errorf("%w: need %d symbols, have %d", ErrShort, n, len(s))
	}
	return nil
}
