package trytebuffer

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/trytebuffer/trytes"
)

var (
	ErrNilSchema       = errors.New("trytebuffer: schema is required")
	ErrMissingField    = errors.New("trytebuffer: missing field")
	ErrEnumValue       = errors.New("trytebuffer: value not in enum")
	ErrTrailingSymbols = errors.New("trytebuffer: trailing symbols")

	// Shared with the primitive layer so errors.Is matches either side.
	ErrUnknownType = trytes.ErrUnknownType
	ErrTruncated   = trytes.ErrShort
)

// FieldError reports which field failed during Encode or Decode.
type FieldError struct {
	Field string
	Op    string // "encode" or "decode"
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("trytebuffer: %s field %q: %v", e.Op, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// SchemaError describes one invalid descriptor.
type SchemaError struct {
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trytebuffer: schema field %q: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("trytebuffer: schema field %q: %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }
