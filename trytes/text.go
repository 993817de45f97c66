package trytes

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxChar is the highest code point a symbol pair carries after
// transliteration; anything above is replaced by '?'.
const maxChar = 0xFF

// Transliterate folds s to Latin-1: diacritics are stripped and runes that
// still fall outside Latin-1 become '?'.
func Transliterate(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if r > maxChar {
			return '?'
		}
		return r
	}, folded)
}

// EncodeString encodes the transliterated characters of s, two symbols each
// (low digit first). No length prefix is written.
func EncodeString(s string) string {
	s = Transliterate(s)
	var b strings.Builder
	b.Grow(2 * len(s))
	for _, r := range s {
		b.WriteByte(Alphabet[r%radix])
		b.WriteByte(Alphabet[r/radix])
	}
	return b.String()
}

// DecodeString decodes a full string payload. len(payload) must be even.
func DecodeString(payload string) (string, error) {
	if len(payload)%2 != 0 {
		return "", fmt.Errorf("%w: odd string payload length %d", ErrShort, len(payload))
	}
	var b strings.Builder
	b.Grow(len(payload) / 2)
	for i := 0; i < len(payload); i += 2 {
		lo, hi := symbolValue[payload[i]], symbolValue[payload[i+1]]
		if lo < 0 || hi < 0 {
			return "", fmt.Errorf("%w in string payload at offset %d", ErrInvalidSymbol, i)
		}
		b.WriteRune(rune(lo) + rune(hi)*radix)
	}
	return b.String(), nil
}

// EncodeText encodes s with its 4-symbol payload length prefix.
func EncodeText(s string) (string, error) {
	payload := EncodeString(s)
	if len(payload) > MaxStringSymbols {
		return "", fmt.Errorf("%w: string payload of %d symbols exceeds %d", ErrOutOfRange, len(payload), MaxStringSymbols)
	}
	prefix, err := EncodeInt(Uint16, int64(len(payload)))
	if err != nil {
		return "", err
	}
	return prefix + payload, nil
}

// DecodeText decodes a length-prefixed string from the front of s and
// reports how many symbols it consumed.
func DecodeText(s string) (string, int, error) {
	n, err := DecodeInt(Uint16, s)
	if err != nil {
		return "", 0, err
	}
	end := StringPrefixSize + int(n)
	if err := need(s, end); err != nil {
		return "", 0, err
	}
	str, err := DecodeString(s[StringPrefixSize:end])
	if err != nil {
		return "", 0, err
	}
	return str, end, nil
}

// TruncateText shortens s so that its encoded payload fits MaxStringSymbols.
func TruncateText(s string) string {
	s = Transliterate(s)
	limit := MaxStringSymbols / 2
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
