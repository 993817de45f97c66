package codec

import (
	"fmt"
	"sort"

	tb "github.com/unkn0wn-root/trytebuffer"
)

var recordCodecs = map[string]func() Codec[tb.Record]{
	"json":     func() Codec[tb.Record] { return JSON[tb.Record]{} },
	"msgpack":  func() Codec[tb.Record] { return Msgpack[tb.Record]{} },
	"cbor":     func() Codec[tb.Record] { return MustCBOR[tb.Record](false) },
	"protobuf": func() Codec[tb.Record] { return Struct{} },
}

// ByName returns the record codec registered under name.
func ByName(name string) (Codec[tb.Record], error) {
	mk, ok := recordCodecs[name]
	if !ok {
		return nil, fmt.Errorf("codec: unknown record codec %q (have %v)", name, Names())
	}
	return mk(), nil
}

// Names lists the record codec names, sorted.
func Names() []string {
	out := make([]string, 0, len(recordCodecs))
	for n := range recordCodecs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
