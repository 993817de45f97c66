package trytes

import (
	"fmt"
	"math"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Loosely typed record values are coerced to the Go type a primitive needs.
// A nil value coerces to that type's zero value.

// Number coerces v to a float64.
func Number(v any) (float64, error) {
	if v == nil {
		return 0, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("trytes: not a number: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite number %v", ErrOutOfRange, f)
	}
	return f, nil
}

// Round rounds f to the nearest integer, halves away from zero.
func Round(f float64) (int64, error) {
	r := math.Round(f)
	if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v does not fit an integer", ErrOutOfRange, f)
	}
	return int64(r), nil
}

// Integer coerces v to a number and rounds it.
func Integer(v any) (int64, error) {
	f, err := Number(v)
	if err != nil {
		return 0, err
	}
	return Round(f)
}

// Boolean coerces v to a bool.
func Boolean(v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("trytes: not a bool: %w", err)
	}
	return b, nil
}

// Text coerces v to a string.
func Text(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("trytes: not a string: %w", err)
	}
	return s, nil
}

// Time coerces v to a time. Strings are parsed (RFC 3339 and friends) and
// numbers are taken as Unix seconds. nil is the Unix epoch.
func Time(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Unix(0, 0).UTC(), nil
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Unix(0, 0).UTC(), nil
		}
		return *t, nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("trytes: not a date: %w", err)
	}
	return t, nil
}

// Coord coerces v to a Point. Maps and structs must carry lat and lon;
// numeric strings are accepted for either.
func Coord(v any) (Point, error) {
	switch g := v.(type) {
	case nil:
		return Point{}, nil
	case Point:
		return g, nil
	case *Point:
		if g == nil {
			return Point{}, nil
		}
		return *g, nil
	}
	var (
		p  Point
		md mapstructure.Metadata
	)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &p,
	})
	if err != nil {
		return Point{}, err
	}
	if err := dec.Decode(v); err != nil {
		return Point{}, fmt.Errorf("trytes: not a geo point: %w", err)
	}
	if len(md.Unset) > 0 {
		return Point{}, fmt.Errorf("trytes: geo point needs lat and lon, got %v", v)
	}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return Point{}, fmt.Errorf("%w: non-finite geo point %v", ErrOutOfRange, p)
	}
	return p, nil
}

// EncodeValue coerces v and encodes it as type t. Integers are rounded
// first; strings carry their length prefix.
func EncodeValue(t Type, v any) (string, error) {
	switch {
	case t.Integer():
		n, err := Integer(v)
		if err != nil {
			return "", err
		}
		return EncodeInt(t, n)
	case t == Bool:
		b, err := Boolean(v)
		if err != nil {
			return "", err
		}
		return EncodeBool(b), nil
	case t == Date:
		d, err := Time(v)
		if err != nil {
			return "", err
		}
		return EncodeDate(d)
	case t == Geo:
		g, err := Coord(v)
		if err != nil {
			return "", err
		}
		return EncodeGeo(g)
	case t == String:
		s, err := Text(v)
		if err != nil {
			return "", err
		}
		return EncodeText(s)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// DecodeValue decodes one value of type t from the front of s and reports the
// symbols consumed. Integers decode as int64.
func DecodeValue(t Type, s string) (any, int, error) {
	switch {
	case t.Integer():
		n, err := DecodeInt(t, s)
		if err != nil {
			return nil, 0, err
		}
		return n, sizes[t], nil
	case t == Bool:
		b, err := DecodeBool(s)
		if err != nil {
			return nil, 0, err
		}
		return b, sizes[t], nil
	case t == Date:
		d, err := DecodeDate(s)
		if err != nil {
			return nil, 0, err
		}
		return d, sizes[t], nil
	case t == Geo:
		g, err := DecodeGeo(s)
		if err != nil {
			return nil, 0, err
		}
		return g, sizes[t], nil
	case t == String:
		str, n, err := DecodeText(s)
		if err != nil {
			return nil, 0, err
		}
		return str, n, nil
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrUnknownType, t)
}
