package schema

import (
	"maps"
	"slices"
	"strings"

	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

// Document is an ER schema as produced by the editor.
type Document struct {
	Tables []*Table `json:"tables" yaml:"tables" msgpack:"tables"`

	// Generator settings carried through to the renderers.
	Root            string `json:"root,omitempty" yaml:"root,omitempty" msgpack:"root,omitempty"`
	CharPrimaryKey  bool   `json:"char_primary_key,omitempty" yaml:"char_primary_key,omitempty" msgpack:"char_primary_key,omitempty"`
	InsertToModules bool   `json:"insert_to_modules,omitempty" yaml:"insert_to_modules,omitempty" msgpack:"insert_to_modules,omitempty"`
}

// Table is a single entity of the document. Name is the singular logical
// entity name as typed by the user.
type Table struct {
	Name        string                       `json:"name" yaml:"name" msgpack:"name"`
	Properties  map[string]*field.Descriptor `json:"properties" yaml:"properties" msgpack:"properties"`
	Relations   map[string]*edge.Descriptor  `json:"relations" yaml:"relations" msgpack:"relations"`
	Indexes     []*Index                     `json:"indexes,omitempty" yaml:"indexes,omitempty" msgpack:"indexes,omitempty"`
	Constraints []*Constraint                `json:"constraints,omitempty" yaml:"constraints,omitempty" msgpack:"constraints,omitempty"`

	CreatePaginationRoute  bool `json:"create_pagination_route,omitempty" yaml:"create_pagination_route,omitempty" msgpack:"create_pagination_route,omitempty"`
	CreateRelationGetRoute bool `json:"create_relation_get_route,omitempty" yaml:"create_relation_get_route,omitempty" msgpack:"create_relation_get_route,omitempty"`
}

// Index is a secondary index over one or more columns.
type Index struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Columns []string `json:"columns" yaml:"columns" msgpack:"columns"`
	Unique  bool     `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique,omitempty"`
}

// ConstraintType is the kind of a table constraint.
type ConstraintType string

// Constraint types.
const (
	Check  ConstraintType = "CHECK"
	Unique ConstraintType = "UNIQUE"
)

// Constraint is a CHECK or UNIQUE table constraint.
type Constraint struct {
	Type       ConstraintType `json:"type" yaml:"type" msgpack:"type"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Columns    []string       `json:"columns,omitempty" yaml:"columns,omitempty" msgpack:"columns,omitempty"`
	Expression string         `json:"expression,omitempty" yaml:"expression,omitempty" msgpack:"expression,omitempty"`
}

// Lookup returns the table with the given name, compared case-insensitively.
// The first match in document order wins.
func (d *Document) Lookup(name string) (*Table, bool) {
	if d == nil || name == "" {
		return nil, false
	}
	for _, t := range d.Tables {
		if t != nil && strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Tables = make([]*Table, len(d.Tables))
	for i, t := range d.Tables {
		c.Tables[i] = t.Clone()
	}
	return &c
}

// PropertyNames returns the column names of the table in sorted order.
func (t *Table) PropertyNames() []string {
	return slices.Sorted(maps.Keys(t.Properties))
}

// RelationKeys returns the relation keys of the table in sorted order.
func (t *Table) RelationKeys() []string {
	return slices.Sorted(maps.Keys(t.Relations))
}

// HasProperty reports if the table declares the column, compared
// case-insensitively.
func (t *Table) HasProperty(name string) bool {
	for col := range t.Properties {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := *t
	if t.Properties != nil {
		c.Properties = make(map[string]*field.Descriptor, len(t.Properties))
		for k, p := range t.Properties {
			c.Properties[k] = p.Clone()
		}
	}
	if t.Relations != nil {
		c.Relations = make(map[string]*edge.Descriptor, len(t.Relations))
		for k, r := range t.Relations {
			c.Relations[k] = r.Clone()
		}
	}
	c.Indexes = make([]*Index, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		if idx == nil {
			c.Indexes = append(c.Indexes, nil)
			continue
		}
		i := *idx
		i.Columns = slices.Clone(idx.Columns)
		c.Indexes = append(c.Indexes, &i)
	}
	c.Constraints = make([]*Constraint, 0, len(t.Constraints))
	for _, ct := range t.Constraints {
		if ct == nil {
			c.Constraints = append(c.Constraints, nil)
			continue
		}
		k := *ct
		k.Columns = slices.Clone(ct.Columns)
		c.Constraints = append(c.Constraints, &k)
	}
	if len(c.Indexes) == 0 {
		c.Indexes = nil
	}
	if len(c.Constraints) == 0 {
		c.Constraints = nil
	}
	return &c
}
