package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is a Codec over encoding/json. Numbers decode as json.Number so
// uint32 values and enum members survive without float rounding.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	err := dec.Decode(&v)
	return v, err
}
