package codec

import tb "github.com/unkn0wn-root/trytebuffer"

// Trytes adapts a compiled Buffer to Codec. The payload is the symbol
// string as ASCII bytes.
type Trytes struct {
	Buffer *tb.Buffer
}

var _ Codec[tb.Record] = Trytes{}

func (c Trytes) Encode(r tb.Record) ([]byte, error) {
	s, err := c.Buffer.Encode(r)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (c Trytes) Decode(b []byte) (tb.Record, error) {
	return c.Buffer.Decode(string(b))
}
