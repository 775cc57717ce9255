package cst

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects the interchange encoding of a CST document.
type Format uint8

const (
	FormatYAML Format = iota + 1
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("invalid CST format: %q (expected: yaml|msgpack)", s)
	}
}

// FormatForPath guesses the format from a file extension, defaulting to YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		return FormatMsgpack
	default:
		return FormatYAML
	}
}

// Document is the unit exchanged with the parser: one source file.
type Document struct {
	Path   string `yaml:"path" msgpack:"path"`
	Source string `yaml:"source,omitempty" msgpack:"source,omitempty"`
	Root   *Node  `yaml:"root" msgpack:"root"`
}

var errNoRoot = errors.New("CST document has no root node")

// Decode reads one document.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml CST: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode msgpack CST: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode CST: unsupported format %d", format)
	}
	if doc.Root == nil {
		return nil, errNoRoot
	}
	return &doc, nil
}

// Encode writes one document.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("encode CST: unsupported format %d", format)
	}
}

// MarshalYAML encodes a kind by name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML decodes a kind name.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseKind(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

var (
	_ msgpack.CustomEncoder = Kind(0)
	_ msgpack.CustomDecoder = (*Kind)(nil)
)

// EncodeMsgpack encodes a kind by name so producers need not share numbering.
func (k Kind) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(k.String())
}

// DecodeMsgpack decodes a kind name.
func (k *Kind) DecodeMsgpack(dec *msgpack.Decoder) error {
	name, err := dec.DecodeString()
	if err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
