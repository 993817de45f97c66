// Package trytebuffer compiles a record schema into a compact codec over the
// 27-symbol tryte alphabet "9ABCDEFGHIJKLMNOPQRSTUVWXYZ". Encoded records are
// plain strings of those symbols and carry no field tags: the schema is the
// only framing, so encoder and decoder must agree on it.
//
// Components:
//   - Schema: ordered field descriptors (type, repeat, enum, precision).
//   - Buffer: the compiled schema; Encode / Decode records, tracks the
//     symbol limit of the last encode.
//   - trytes: the primitive symbol arithmetic every field is built from.
//   - schemafile, codec, registry: loading, serializing and sharing schemas.
//
// Layout (schema order, no separators):
//
//	intN / uintN      fixed width, 2 / 4 / 7 symbols
//	bool              1 symbol
//	date              7 symbols, Unix seconds
//	geo               12 symbols, grid cell of the point
//	string            4-symbol length + 2 symbols per character
//	enum              2-symbol member index
//	repeat            2-symbol count + element encodings
//
// Usage:
//
//	buf, _ := trytebuffer.New(schema, trytebuffer.Options{})
//	s, _ := buf.Encode(trytebuffer.Record{"id": 42})
//	r, _ := buf.Decode(s)
package trytebuffer
