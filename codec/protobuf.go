package codec

import (
	"fmt"
	"reflect"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/trytes"
)

// Protobuf is a Codec for a concrete generated message type.
type Protobuf[T proto.Message] struct {
	new func() T // constructor, e.g. func() *pb.Reading { return &pb.Reading{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// Struct carries records as google.protobuf.Struct messages. Times are
// written as RFC 3339 strings and geo points as {lat, lon} objects; numbers
// come back as float64.
type Struct struct{}

var _ Codec[tb.Record] = Struct{}

func (Struct) Encode(r tb.Record) ([]byte, error) {
	m := make(map[string]any, len(r))
	for k, v := range r {
		n, err := structValue(v)
		if err != nil {
			return nil, fmt.Errorf("codec: field %q: %w", k, err)
		}
		m[k] = n
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func (Struct) Decode(b []byte) (tb.Record, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return tb.Record(s.AsMap()), nil
}

// structValue rewrites v into the shapes structpb.NewValue accepts.
func structValue(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	case trytes.Point:
		return map[string]any{"lat": t.Lat, "lon": t.Lon}, nil
	case *trytes.Point:
		if t == nil {
			return nil, nil
		}
		return map[string]any{"lat": t.Lat, "lon": t.Lon}, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			n, err := structValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []byte, string:
		return t, nil
	}
	if k := reflect.ValueOf(v).Kind(); k == reflect.Slice || k == reflect.Array {
		items, err := trytes.Elements(v)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, e := range items {
			if out[i], err = structValue(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return v, nil
}
