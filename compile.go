package trytebuffer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/unkn0wn-root/trytebuffer/trytes"
)

type fieldKind uint8

const (
	kindFallback fieldKind = iota
	kindArray
	kindEnum
	kindString
	kindInteger
	kindBool
	kindDate
	kindGeo
)

type (
	encodeFunc func(v any) (string, error)
	decodeFunc func(symbols string) (consumed int, v any, err error)
)

// compiledField is the encode/decode pair bound to one schema field.
type compiledField struct {
	name   string
	kind   fieldKind
	encode encodeFunc
	decode decodeFunc
}

// compiler binds descriptors to procedures. In lenient mode every problem is
// passed to degrade and a default substituted; in strict mode it is returned.
type compiler struct {
	strict  bool
	degrade func(field, reason string, err error)
}

func (c *compiler) compile(s Schema) []compiledField {
	out := make([]compiledField, len(s))
	for i, f := range s {
		out[i] = c.field(f.Name, f.FieldDescriptor)
	}
	return out
}

func (c *compiler) field(name string, d FieldDescriptor) compiledField {
	switch {
	case d.Repeat:
		if !d.Type.Known() {
			return c.fallback(name, d.Type)
		}
		return c.array(name, d.Type)
	case d.Enum != nil:
		return c.enum(name, d.Enum)
	}

	switch d.Type {
	case String:
		return c.text(name)
	case Int8, Uint8, Int16, Uint16, Int32, Uint32:
		return c.integer(name, d.Type, d.Precision)
	case Bool:
		return c.boolean(name)
	case Date:
		return c.date(name)
	case Geo:
		return c.geo(name)
	}
	return c.fallback(name, d.Type)
}

// fallback never inspects its input: encode yields no symbols and decode
// yields nil without consuming any.
func (c *compiler) fallback(name string, t Type) compiledField {
	c.degrade(name, ReasonUnknownType, fmt.Errorf("%w: %q", ErrUnknownType, t))
	return compiledField{
		name:   name,
		kind:   kindFallback,
		encode: func(any) (string, error) { return "", nil },
		decode: func(string) (int, any, error) { return 0, nil, nil },
	}
}

// coerce converts v with conv. A lenient failure reports and yields the zero value.
func coerce[T any](c *compiler, name string, v any, conv func(any) (T, error)) (T, error) {
	out, err := conv(v)
	if err == nil {
		return out, nil
	}
	var zero T
	if c.strict {
		return zero, err
	}
	c.degrade(name, ReasonCoerce, err)
	return zero, nil
}

func (c *compiler) array(name string, elem Type) compiledField {
	width, _ := trytes.Size(elem)
	return compiledField{
		name: name,
		kind: kindArray,
		encode: func(v any) (string, error) {
			out, err := trytes.EncodeArray(v, elem)
			if err == nil || c.strict {
				return out, err
			}
			return c.salvageArray(name, v, elem)
		},
		decode: func(s string) (int, any, error) {
			items, err := trytes.DecodeArray(s, elem)
			if err != nil {
				return 0, nil, err
			}
			n := trytes.ArrayPrefixSize
			if elem == String {
				for _, it := range items {
					n += utf8.RuneCountInString(it.(string))*2 + trytes.StringPrefixSize
				}
			} else {
				n += width * len(items)
			}
			return n, items, nil
		},
	}
}

// salvageArray re-encodes a rejected array element by element, substituting
// or clamping whatever the strict path refused.
func (c *compiler) salvageArray(name string, v any, elem Type) (string, error) {
	items, err := coerce(c, name, v, trytes.Elements)
	if err != nil {
		return "", err
	}
	if len(items) > trytes.MaxArrayLen {
		c.degrade(name, ReasonTruncate, fmt.Errorf("%w: %d elements", trytes.ErrOutOfRange, len(items)))
		items = items[:trytes.MaxArrayLen]
	}
	out, err := trytes.EncodeInt(trytes.Uint8, int64(len(items)))
	if err != nil {
		return "", err
	}
	for _, it := range items {
		enc, err := c.element(name, elem, it)
		if err != nil {
			return "", err
		}
		out += enc
	}
	return out, nil
}

func (c *compiler) element(name string, elem Type, v any) (string, error) {
	switch {
	case elem.Integer():
		return c.encodeInteger(name, elem, 0, v)
	case elem == Bool:
		b, err := coerce(c, name, v, trytes.Boolean)
		if err != nil {
			return "", err
		}
		return trytes.EncodeBool(b), nil
	case elem == Date:
		return c.encodeDate(name, v)
	case elem == Geo:
		return c.encodeGeo(name, v)
	case elem == String:
		return c.encodeText(name, v)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, elem)
}

func (c *compiler) enum(name string, values []any) compiledField {
	return compiledField{
		name: name,
		kind: kindEnum,
		encode: func(v any) (string, error) {
			i := indexOf(values, v)
			if i < 0 || i > trytes.MaxArrayLen {
				err := fmt.Errorf("%w: %v", ErrEnumValue, v)
				if c.strict {
					return "", err
				}
				if v != nil {
					c.degrade(name, ReasonEnumValue, err)
				}
				i = 0
			}
			return trytes.EncodeInt(trytes.Uint8, int64(i))
		},
		decode: func(s string) (int, any, error) {
			i, err := trytes.DecodeInt(trytes.Uint8, s)
			if err != nil {
				return 0, nil, err
			}
			if int(i) >= len(values) {
				err := fmt.Errorf("%w: index %d of %d members", ErrEnumValue, i, len(values))
				if c.strict {
					return 0, nil, err
				}
				c.degrade(name, ReasonEnumIndex, err)
				return trytes.EnumSize, nil, nil
			}
			return trytes.EnumSize, values[i], nil
		},
	}
}

// indexOf finds v among enum members. Numbers compare by value so that a
// JSON float64(2) matches a declared int 2.
func indexOf(values []any, v any) int {
	for i, m := range values {
		if sameValue(m, v) {
			return i
		}
	}
	return -1
}

func sameValue(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		x, errA := cast.ToFloat64E(a)
		y, errB := cast.ToFloat64E(b)
		return errA == nil && errB == nil && x == y
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

func (c *compiler) text(name string) compiledField {
	return compiledField{
		name: name,
		kind: kindString,
		encode: func(v any) (string, error) {
			return c.encodeText(name, v)
		},
		decode: func(s string) (int, any, error) {
			str, n, err := trytes.DecodeText(s)
			if err != nil {
				return 0, nil, err
			}
			return n, str, nil
		},
	}
}

func (c *compiler) encodeText(name string, v any) (string, error) {
	s, err := coerce(c, name, v, trytes.Text)
	if err != nil {
		return "", err
	}
	out, err := trytes.EncodeText(s)
	if err != nil && !c.strict && errors.Is(err, trytes.ErrOutOfRange) {
		c.degrade(name, ReasonTruncate, err)
		return trytes.EncodeText(trytes.TruncateText(s))
	}
	return out, err
}

// integer scales by 10^precision and rounds before encoding. Rounding applies
// even without precision, so fractional input is always lossy.
func (c *compiler) integer(name string, t Type, precision int) compiledField {
	width, _ := trytes.Size(t)
	scale := math.Pow10(precision)
	return compiledField{
		name: name,
		kind: kindInteger,
		encode: func(v any) (string, error) {
			return c.encodeInteger(name, t, precision, v)
		},
		decode: func(s string) (int, any, error) {
			n, err := trytes.DecodeInt(t, s)
			if err != nil {
				return 0, nil, err
			}
			if precision > 0 {
				return width, float64(n) / scale, nil
			}
			return width, n, nil
		},
	}
}

func (c *compiler) encodeInteger(name string, t Type, precision int, v any) (string, error) {
	f, err := coerce(c, name, v, trytes.Number)
	if err != nil {
		return "", err
	}
	if precision > 0 {
		f *= math.Pow10(precision)
	}
	lo, hi, _ := trytes.Range(t)
	n, err := trytes.Round(f)
	if err == nil && n >= lo && n <= hi {
		return trytes.EncodeInt(t, n)
	}
	if err == nil {
		_, err = trytes.EncodeInt(t, n)
	}
	if c.strict {
		return "", err
	}
	c.degrade(name, ReasonClamp, err)
	switch {
	case math.IsNaN(f):
		return trytes.EncodeInt(t, 0)
	case f < 0:
		return trytes.EncodeInt(t, lo)
	}
	return trytes.EncodeInt(t, hi)
}

func (c *compiler) boolean(name string) compiledField {
	return compiledField{
		name: name,
		kind: kindBool,
		encode: func(v any) (string, error) {
			b, err := coerce(c, name, v, trytes.Boolean)
			if err != nil {
				return "", err
			}
			return trytes.EncodeBool(b), nil
		},
		decode: func(s string) (int, any, error) {
			b, err := trytes.DecodeBool(s)
			if err != nil {
				return 0, nil, err
			}
			return 1, b, nil
		},
	}
}

func (c *compiler) date(name string) compiledField {
	width, _ := trytes.Size(Date)
	return compiledField{
		name: name,
		kind: kindDate,
		encode: func(v any) (string, error) {
			return c.encodeDate(name, v)
		},
		decode: func(s string) (int, any, error) {
			d, err := trytes.DecodeDate(s)
			if err != nil {
				return 0, nil, err
			}
			return width, d, nil
		},
	}
}

func (c *compiler) encodeDate(name string, v any) (string, error) {
	d, err := coerce(c, name, v, trytes.Time)
	if err != nil {
		return "", err
	}
	out, err := trytes.EncodeDate(d)
	if err != nil && !c.strict {
		c.degrade(name, ReasonClamp, err)
		return trytes.EncodeDate(trytes.ClampDate(d))
	}
	return out, err
}

func (c *compiler) geo(name string) compiledField {
	width, _ := trytes.Size(Geo)
	return compiledField{
		name: name,
		kind: kindGeo,
		encode: func(v any) (string, error) {
			return c.encodeGeo(name, v)
		},
		decode: func(s string) (int, any, error) {
			g, err := trytes.DecodeGeo(s)
			if err != nil {
				return 0, nil, err
			}
			return width, g, nil
		},
	}
}

func (c *compiler) encodeGeo(name string, v any) (string, error) {
	g, err := coerce(c, name, v, trytes.Coord)
	if err != nil {
		return "", err
	}
	out, err := trytes.EncodeGeo(g)
	if err != nil && !c.strict {
		c.degrade(name, ReasonCoerce, err)
		return trytes.EncodeGeo(trytes.Point{})
	}
	return out, err
}
