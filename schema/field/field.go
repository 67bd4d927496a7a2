package field

import (
	"slices"
	"strings"
)

// Column types understood by the default type map. Documents may use other
// type names; those are passed through and reported as advisory warnings.
const (
	TypeVarchar         = "varchar"
	TypeText            = "text"
	TypeInt             = "int"
	TypeInt4            = "int4"
	TypeInteger         = "integer"
	TypeDecimal         = "decimal"
	TypeDoublePrecision = "double precision"
	TypeBoolean         = "boolean"
	TypeTimestamp       = "timestamp"
	TypeTimestampTZ     = "timestamptz"
	TypeJSON            = "json"
	TypeJSONB           = "jsonb"
	TypeEnum            = "enum"
)

// Descriptor is a column (property) of a table.
type Descriptor struct {
	Type     string `json:"type" yaml:"type" msgpack:"type"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
	Unique   bool   `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique,omitempty"`
	Length   int    `json:"length,omitempty" yaml:"length,omitempty" msgpack:"length,omitempty"`
	Unsigned bool   `json:"unsigned,omitempty" yaml:"unsigned,omitempty" msgpack:"unsigned,omitempty"`
	// Enum holds the allowed values of an enum column.
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty" msgpack:"enum,omitempty"`
	// UseDBEnum stores the column as a native database enum. Defaults to true
	// for enum columns, in which case DBEnumName is required.
	UseDBEnum  *bool  `json:"useDbEnum,omitempty" yaml:"useDbEnum,omitempty" msgpack:"useDbEnum,omitempty"`
	DBEnumName string `json:"dbEnumName,omitempty" yaml:"dbEnumName,omitempty" msgpack:"dbEnumName,omitempty"`
}

// IsEnum reports if the column is an enum column, either by type or by
// carrying enum values.
func (d Descriptor) IsEnum() bool {
	return strings.EqualFold(d.Type, TypeEnum) || len(d.Enum) > 0
}

// NativeEnum reports if the enum is stored as a database enum type.
func (d Descriptor) NativeEnum() bool {
	if !d.IsEnum() {
		return false
	}
	return d.UseDBEnum == nil || *d.UseDBEnum
}

// Clone returns a deep copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	c := *d
	c.Enum = slices.Clone(d.Enum)
	if d.UseDBEnum != nil {
		v := *d.UseDBEnum
		c.UseDBEnum = &v
	}
	return &c
}
