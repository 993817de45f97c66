package trytes

import (
	"fmt"
	"time"
)

// EncodeBool encodes b as one symbol: 'A' for true, '9' for false.
func EncodeBool(b bool) string {
	if b {
		return "A"
	}
	return "9"
}

// DecodeBool decodes the leading symbol of s.
func DecodeBool(s string) (bool, error) {
	if err := need(s, 1); err != nil {
		return false, err
	}
	switch s[0] {
	case 'A':
		return true, nil
	case '9':
		return false, nil
	}
	return false, fmt.Errorf("%w %q for bool", ErrInvalidSymbol, s[0])
}

const maxDate = 10460353202 // 27^7 - 1 seconds, early 2301

// EncodeDate encodes t as whole Unix seconds in 7 symbols.
// Sub-second precision is dropped.
func EncodeDate(t time.Time) (string, error) {
	sec := t.Unix()
	if sec < 0 || sec > maxDate {
		return "", fmt.Errorf("%w: date %s outside [1970-01-01, 2301]", ErrOutOfRange, t.UTC().Format(time.RFC3339))
	}
	return encodeUint(uint64(sec), sizes[Date]), nil
}

// DecodeDate decodes the leading 7 symbols of s. The result is in UTC.
func DecodeDate(s string) (time.Time, error) {
	w := sizes[Date]
	if err := need(s, w); err != nil {
		return time.Time{}, err
	}
	sec, err := decodeUint(s[:w])
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(sec), 0).UTC(), nil
}

// ClampDate limits t to the encodable range.
func ClampDate(t time.Time) time.Time {
	switch sec := t.Unix(); {
	case sec < 0:
		return time.Unix(0, 0).UTC()
	case sec > maxDate:
		return time.Unix(maxDate, 0).UTC()
	}
	return t
}
