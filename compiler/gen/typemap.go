package gen

import (
	"maps"
	"slices"
	"strings"

	"github.com/syssam/erdgen/schema/field"
)

// FallbackType is the renderer type of columns missing from a TypeMap.
const FallbackType = "any"

// TypeMap maps column types to the types used by the template renderers.
// It is immutable; With returns a modified copy.
type TypeMap struct {
	types map[string]string
}

// DefaultTypeMap returns the TypeScript mapping of the built-in column types.
func DefaultTypeMap() *TypeMap {
	return NewTypeMap(map[string]string{
		field.TypeVarchar:         "string",
		field.TypeText:            "string",
		field.TypeInt:             "number",
		field.TypeInt4:            "number",
		field.TypeInteger:         "number",
		field.TypeDecimal:         "number",
		field.TypeDoublePrecision: "number",
		field.TypeBoolean:         "boolean",
		field.TypeTimestamp:       "Date",
		field.TypeTimestampTZ:     "Date",
		field.TypeJSON:            "Record<string, any>",
		field.TypeJSONB:           "Record<string, any>",
		field.TypeEnum:            "string",
	})
}

// NewTypeMap creates a TypeMap from the given column type mapping. Column
// type keys are matched case-insensitively.
func NewTypeMap(types map[string]string) *TypeMap {
	m := &TypeMap{types: make(map[string]string, len(types))}
	for k, v := range types {
		m.types[normalizeType(k)] = v
	}
	return m
}

// With returns a copy of the map with the given column type mapped to t.
func (m *TypeMap) With(column, t string) *TypeMap {
	c := &TypeMap{types: maps.Clone(m.types)}
	c.types[normalizeType(column)] = t
	return c
}

// Lookup returns the renderer type of the column type and whether it is known.
func (m *TypeMap) Lookup(column string) (string, bool) {
	t, ok := m.types[normalizeType(column)]
	return t, ok
}

// Resolve returns the renderer type of the column type, or FallbackType.
func (m *TypeMap) Resolve(column string) string {
	if t, ok := m.Lookup(column); ok {
		return t
	}
	return FallbackType
}

// Columns returns the known column types in sorted order.
func (m *TypeMap) Columns() []string {
	return slices.Sorted(maps.Keys(m.types))
}

// normalizeType lowercases a column type and drops a size suffix,
// so "VARCHAR(255)" and "varchar" share an entry.
func normalizeType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '('); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
