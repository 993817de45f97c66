// Package codec serializes records and schemas to bytes. Record codecs feed
// the trytebuf CLI; schema codecs frame registry entries.
package codec

import "errors"

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// ErrTooLarge is returned by LimitCodec for oversize payloads.
var ErrTooLarge = errors.New("codec: payload too large")
