package ir

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects an IR output encoding.
type Format uint8

const (
	FormatText Format = iota
	FormatYAML
	FormatMsgpack
)

// ErrUnknownFormat is returned for unrecognised format names.
var ErrUnknownFormat = errors.New("unknown IR format")

// ParseFormat maps text|yaml|msgpack to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return FormatText, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// EncodingVersion is bumped whenever the serialized shape changes.
const EncodingVersion = 1

type document struct {
	Version int   `yaml:"version" msgpack:"version"`
	File    *File `yaml:"file" msgpack:"file"`
}

// Encode writes f to w in the requested format. Encoded output is one-way:
// it is meant for inspection and golden files, not for reloading.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatText:
		return Dump(w, f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Version: EncodingVersion, File: f}); err != nil {
			return fmt.Errorf("encode IR yaml: %w", err)
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("msgpack")
		enc.SetOmitEmpty(true)
		if err := enc.Encode(document{Version: EncodingVersion, File: f}); err != nil {
			return fmt.Errorf("encode IR msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}

// Kind-like enums are written by name in YAML so golden files stay readable.

func (k DeclKind) MarshalYAML() (any, error)   { return k.String(), nil }
func (k ExprKind) MarshalYAML() (any, error)   { return k.String(), nil }
func (k TypeKind) MarshalYAML() (any, error)   { return k.String(), nil }
func (k ClassKind) MarshalYAML() (any, error)  { return k.String(), nil }
func (v Visibility) MarshalYAML() (any, error) { return v.String(), nil }
func (m Modality) MarshalYAML() (any, error)   { return m.String(), nil }
func (v Variance) MarshalYAML() (any, error)   { return v.String(), nil }
func (op Operation) MarshalYAML() (any, error) { return op.String(), nil }
func (k ConstKind) MarshalYAML() (any, error)  { return k.String(), nil }
func (f DeclFlags) MarshalYAML() (any, error)  { return f.String(), nil }
