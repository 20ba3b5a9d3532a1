package jsonsafe

import (
	"bytes"
	"encoding/json"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Codec turns values into text and back.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Decode receives a pointer and must leave it nil for an explicit null document.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec encodes indented JSON.
type JSONCodec struct {
	// Indent is the per-level indentation.
	// Default: two spaces
	Indent string
}

func (c JSONCodec) Name() string { return "json" }

func (c JSONCodec) Encode(v any) ([]byte, error) {
	indent := c.Indent
	if indent == "" {
		indent = "  "
	}
	return json.MarshalIndent(v, "", indent)
}

func (c JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// YAMLCodec encodes YAML documents.
type YAMLCodec struct {
	// Indent is the number of spaces per level.
	// Default: 2
	Indent int
}

func (c YAMLCodec) Name() string { return "yaml" }

func (c YAMLCodec) Encode(v any) ([]byte, error) {
	indent := c.Indent
	if indent <= 0 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c YAMLCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// TOMLCodec encodes TOML documents. Only tables (structs and maps) can be
// stored at the top level.
type TOMLCodec struct {
	// Indent is used for nested tables.
	// Default: two spaces
	Indent string
}

func (c TOMLCodec) Name() string { return "toml" }

func (c TOMLCodec) Encode(v any) ([]byte, error) {
	indent := c.Indent
	if indent == "" {
		indent = "  "
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = indent
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c TOMLCodec) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
	_ Codec = TOMLCodec{}
)
