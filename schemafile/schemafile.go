// Package schemafile reads and writes trytebuffer schemas as JSON, YAML or
// TOML documents.
//
// A document is either a mapping from field name to descriptor, in wire
// order:
//
//	name:    {type: string}
//	aliases: {type: string, repeat: true}
//	kind:    {enum: [mobile, work, home]}
//
// or (JSON and YAML only) a list of descriptors carrying a "name" key.
// Documents are checked against an embedded JSON Schema before decoding.
package schemafile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"

	tb "github.com/unkn0wn-root/trytebuffer"
)

// Format is a document syntax.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

var (
	ErrFormat  = errors.New("schemafile: unsupported format")
	ErrInvalid = errors.New("schemafile: invalid schema document")
)

//go:embed schema.json
var documentSchema []byte

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(documentSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("trytebuffer-schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("trytebuffer-schema.json")
})

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
}

// Load reads the schema document at path; the format follows the extension.
func Load(path string) (tb.Schema, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a schema document. Field order follows the document.
func Parse(data []byte, f Format) (tb.Schema, error) {
	var (
		raw []map[string]any
		err error
	)
	switch f {
	case JSON, YAML:
		raw, err = fromYAML(data)
	case TOML:
		raw, err = fromTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	out := make(tb.Schema, 0, len(raw))
	for i, m := range raw {
		var fld tb.Field
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &fld,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrInvalid, i, err)
		}
		out = append(out, fld)
	}
	return out, nil
}

// fromYAML also handles JSON, which goccy parses as flow-style YAML.
func fromYAML(data []byte) ([]map[string]any, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case yaml.MapSlice:
		out := make([]map[string]any, 0, len(d))
		for _, it := range d {
			out = append(out, named(fmt.Sprint(it.Key), plain(it.Value)))
		}
		return out, nil
	case []any:
		out := make([]map[string]any, 0, len(d))
		for i, it := range d {
			m, ok := plain(it).(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is %T, want a mapping", ErrInvalid, i, it)
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: top level is %T, want a mapping or list", ErrInvalid, doc)
}

// fromTOML recovers table order from the decoder metadata.
func fromTOML(data []byte) ([]map[string]any, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var out []map[string]any
	for _, k := range md.Keys() {
		if len(k) != 1 {
			continue
		}
		out = append(out, named(k[0], doc[k[0]]))
	}
	return out, nil
}

// named copies descriptor d with its field name added. Non-mapping
// descriptors are kept as-is under "descriptor" so validation rejects them.
func named(name string, d any) map[string]any {
	m, ok := d.(map[string]any)
	if !ok {
		return map[string]any{"name": name, "descriptor": d}
	}
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["name"] = name
	return out
}

// plain turns ordered maps into map[string]any, recursively.
func plain(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(t))
		for _, it := range t {
			m[fmt.Sprint(it.Key)] = plain(it.Value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

func validate(fields []map[string]any) error {
	sch, err := compiled()
	if err != nil {
		return err
	}
	if fields == nil {
		fields = []map[string]any{}
	}
	// Round-trip through JSON so every number is a json.Number.
	b, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
