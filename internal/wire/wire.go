// Package wire frames registry entries so a reader can tell a schema entry
// from foreign or damaged bytes and see which revision wrote it.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("trytebuffer: corrupt registry entry")
	magic      = [...]byte{'T', 'R', 'Y', 'S'}
)

// Encode frames payload:
//
//	magic(4) | ver(1) | rev(u64 be) | plen(u32 be) | payload(plen)
func Encode(rev uint64, payload []byte) []byte {
	out := make([]byte, hdrLen, hdrLen+len(payload))
	copy(out, magic[:])
	out[4] = version
	binary.BigEndian.PutUint64(out[5:13], rev)
	binary.BigEndian.PutUint32(out[13:17], uint32(len(payload)))
	return append(out, payload...)
}

// Decode validates the frame and returns the revision and payload. The
// payload aliases b. Any byte after the payload is corruption.
func Decode(b []byte) (rev uint64, payload []byte, err error) {
	if len(b) < hdrLen || !bytes.Equal(b[:4], magic[:]) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	rev = binary.BigEndian.Uint64(b[5:13])
	plen := binary.BigEndian.Uint32(b[13:17])
	if uint64(plen) != uint64(len(b)-hdrLen) {
		return 0, nil, ErrCorrupt
	}
	return rev, b[hdrLen:], nil
}
