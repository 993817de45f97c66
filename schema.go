package trytebuffer

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/trytebuffer/trytes"
)

// Type is a primitive field type.
type Type = trytes.Type

const (
	Int8   = trytes.Int8
	Uint8  = trytes.Uint8
	Int16  = trytes.Int16
	Uint16 = trytes.Uint16
	Int32  = trytes.Int32
	Uint32 = trytes.Uint32
	Bool   = trytes.Bool
	Date   = trytes.Date
	Geo    = trytes.Geo
	String = trytes.String
)

// MaxPrecision is the largest Precision a valid schema may declare. Scaling
// past 10^9 leaves no integer digits in even the widest type.
const MaxPrecision = 9

// FieldDescriptor declares how one field is laid out on the wire.
// Enum, when non-nil, takes precedence over Type unless Repeat is set.
type FieldDescriptor struct {
	Type      Type  `json:"type,omitempty" msgpack:"type,omitempty" toml:"type,omitempty" mapstructure:"type"`
	Repeat    bool  `json:"repeat,omitempty" msgpack:"repeat,omitempty" toml:"repeat,omitempty" mapstructure:"repeat"`
	Enum      []any `json:"enum,omitempty" msgpack:"enum,omitempty" toml:"enum,omitempty" mapstructure:"enum"`
	Precision int   `json:"precision,omitempty" msgpack:"precision,omitempty" toml:"precision,omitempty" mapstructure:"precision"`
}

// Field is a named descriptor.
type Field struct {
	Name            string `json:"name" msgpack:"name" mapstructure:"name"`
	FieldDescriptor `mapstructure:",squash"`
}

// Schema is the ordered field list. Order is the wire layout.
type Schema []Field

// Record is one message: field name to value.
type Record map[string]any

// Names returns field names in wire order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// Lookup returns the descriptor of the named field.
func (s Schema) Lookup(name string) (FieldDescriptor, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.FieldDescriptor, true
		}
	}
	return FieldDescriptor{}, false
}

// Clone returns a deep copy; enum slices are not shared.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	for i, f := range s {
		out[i] = f
		if f.Enum != nil {
			out[i].Enum = append([]any(nil), f.Enum...)
		}
	}
	return out
}

// Validate reports every descriptor that lenient compilation would silently
// degrade. Strict buffers refuse schemas that fail validation.
func (s Schema) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		bad := func(reason string) {
			errs = append(errs, &SchemaError{Field: f.Name, Reason: reason})
		}
		if f.Name == "" {
			bad("empty field name")
		} else if _, dup := seen[f.Name]; dup {
			bad("duplicate field name")
		}
		seen[f.Name] = struct{}{}

		d := f.FieldDescriptor
		if d.Precision < 0 {
			bad("negative precision")
		} else if d.Precision > MaxPrecision {
			bad(fmt.Sprintf("precision %d exceeds %d", d.Precision, MaxPrecision))
		}
		if d.Enum != nil {
			switch {
			case d.Repeat:
				bad("repeat is not supported on enum fields")
			case d.Type != "":
				bad("enum and type are mutually exclusive")
			case len(d.Enum) == 0:
				bad("empty enum")
			case len(d.Enum) > trytes.MaxArrayLen+1:
				bad(fmt.Sprintf("enum has %d members, max %d", len(d.Enum), trytes.MaxArrayLen+1))
			}
			if d.Precision != 0 {
				bad("precision applies to integer types only")
			}
			continue
		}
		if !d.Type.Known() {
			errs = append(errs, &SchemaError{Field: f.Name, Reason: fmt.Sprintf("type %q", d.Type), Err: ErrUnknownType})
			continue
		}
		if d.Precision != 0 && (d.Repeat || !d.Type.Integer()) {
			bad("precision applies to non-repeated integer types only")
		}
	}
	return errors.Join(errs...)
}
