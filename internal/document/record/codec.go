package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat indicates an unknown encoding name or file extension.
var ErrUnsupportedFormat = errors.New("record: unsupported format")

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (Record, error) {
	var rec Record
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &rec)
	case FormatYAML:
		err = yaml.Unmarshal(data, &rec)
	case FormatTOML:
		err = toml.Unmarshal(data, &rec)
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return Record{}, fmt.Errorf("record: decode %s: %w", f, err)
	}
	return rec, nil
}

// Encode writes rec in the given format.
func Encode(rec Record, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(rec, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("record: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("record: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("record: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
