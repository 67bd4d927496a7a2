package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

// Format is the encoding of a schema document on disk.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// String implements fmt.Stringer.
func (f Format) String() string { return string(f) }

// Ext returns the file extension of the format, including the dot.
func (f Format) Ext() string {
	if f == YAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("load: unknown format %q (use json or yaml)", s)
}

// FormatOf returns the format of a file by its extension. Files without a
// known extension are read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// UnmarshalDocument decodes the given buffer to a schema document.
func UnmarshalDocument(buf []byte, format Format) (*schema.Document, error) {
	doc := &schema.Document{}
	switch format {
	case YAML:
		if err := yaml.Unmarshal(buf, doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(buf, doc); err != nil {
			return nil, err
		}
	}
	if err := defaults(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// MarshalDocument encodes a schema document in the given format.
func MarshalDocument(doc *schema.Document, format Format) ([]byte, error) {
	if format == YAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load reads and decodes the schema document at path.
func Load(path string) (*schema.Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read schema: %w", err)
	}
	doc, err := UnmarshalDocument(buf, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("load: decode %s: %w", path, err)
	}
	return doc, nil
}

// defaults fills the empty maps that the editor omits and rejects null
// entries which no later stage could make sense of.
func defaults(doc *schema.Document) error {
	for i, t := range doc.Tables {
		if t == nil {
			return fmt.Errorf("load: table #%d is null", i)
		}
		if t.Properties == nil {
			t.Properties = make(map[string]*field.Descriptor)
		}
		if t.Relations == nil {
			t.Relations = make(map[string]*edge.Descriptor)
		}
		for name, p := range t.Properties {
			if p == nil {
				return fmt.Errorf("load: table %q: property %q is null", t.Name, name)
			}
		}
		for key, r := range t.Relations {
			if r == nil {
				return fmt.Errorf("load: table %q: relation %q is null", t.Name, key)
			}
		}
	}
	return nil
}
