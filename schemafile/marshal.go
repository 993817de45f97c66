package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	tb "github.com/unkn0wn-root/trytebuffer"
)

// Marshal writes s as a document in the mapping form, keeping field order in
// every format.
func Marshal(s tb.Schema, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return marshalJSON(s)
	case YAML:
		ms := make(yaml.MapSlice, 0, len(s))
		for _, fld := range s {
			ms = append(ms, yaml.MapItem{Key: fld.Name, Value: fld.FieldDescriptor})
		}
		return yaml.Marshal(ms)
	case TOML:
		return marshalTOML(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, f)
}

func marshalJSON(s tb.Schema) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, fld := range s {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		k, err := json.Marshal(fld.Name)
		if err != nil {
			return nil, err
		}
		d, err := json.Marshal(fld.FieldDescriptor)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fld.Name, err)
		}
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(d)
	}
	if len(s) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// marshalTOML writes one table per field. The encoder sorts map keys, so
// tables are emitted one at a time to keep wire order.
func marshalTOML(s tb.Schema) ([]byte, error) {
	var buf bytes.Buffer
	for i, fld := range s {
		if i > 0 {
			buf.WriteString("\n")
		}
		key := fld.Name
		if !bareKey.MatchString(key) {
			key = strconv.Quote(key)
		}
		fmt.Fprintf(&buf, "[%s]\n", key)
		body, err := toml.Marshal(fld.FieldDescriptor)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fld.Name, err)
		}
		buf.Write(body)
	}
	return buf.Bytes(), nil
}
