package gen

import (
	"strings"

	"github.com/syssam/erdgen/compiler/naming"
	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

type (
	// Schema is a normalized schema document, ready for the template
	// renderers. It is never mutated after Normalize returns it.
	Schema struct {
		Tables []*Table `json:"tables" yaml:"tables" msgpack:"tables"`

		Root            string `json:"root,omitempty" yaml:"root,omitempty" msgpack:"root,omitempty"`
		CharPrimaryKey  bool   `json:"char_primary_key,omitempty" yaml:"char_primary_key,omitempty" msgpack:"char_primary_key,omitempty"`
		InsertToModules bool   `json:"insert_to_modules,omitempty" yaml:"insert_to_modules,omitempty" msgpack:"insert_to_modules,omitempty"`
	}

	// Table is a normalized table. Relations are keyed by their derived key.
	Table struct {
		Name        string                       `json:"name" yaml:"name" msgpack:"name"`
		Properties  map[string]*field.Descriptor `json:"properties" yaml:"properties" msgpack:"properties"`
		Relations   map[string]*Relation         `json:"relations" yaml:"relations" msgpack:"relations"`
		Indexes     []*schema.Index              `json:"indexes,omitempty" yaml:"indexes,omitempty" msgpack:"indexes,omitempty"`
		Constraints []*schema.Constraint         `json:"constraints,omitempty" yaml:"constraints,omitempty" msgpack:"constraints,omitempty"`
		// Junction marks a table synthesized for a ManyToMany pair. Junction
		// tables also carry empty properties.
		Junction bool `json:"junction,omitempty" yaml:"junction,omitempty" msgpack:"junction,omitempty"`

		CreatePaginationRoute  bool `json:"create_pagination_route,omitempty" yaml:"create_pagination_route,omitempty" msgpack:"create_pagination_route,omitempty"`
		CreateRelationGetRoute bool `json:"create_relation_get_route,omitempty" yaml:"create_relation_get_route,omitempty" msgpack:"create_relation_get_route,omitempty"`
	}

	// Relation is a resolved relation.
	Relation struct {
		Type edge.Kind `json:"type" yaml:"type" msgpack:"type"`
		// Entity is the class name of the target (plural PascalCase).
		Entity   string `json:"entity" yaml:"entity" msgpack:"entity"`
		Required bool   `json:"required" yaml:"required" msgpack:"required"`
		IsOwner  *bool  `json:"isOwner,omitempty" yaml:"isOwner,omitempty" msgpack:"isOwner,omitempty"`
		// Target is the table name the relation points at.
		Target string `json:"target" yaml:"target" msgpack:"target"`
		// Name is the relation key as declared by the user. Empty for
		// synthesized relations.
		Name string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
		// Inverse is the derived key of the reverse relation on the target.
		Inverse string `json:"inverse,omitempty" yaml:"inverse,omitempty" msgpack:"inverse,omitempty"`
		// Through is the junction table of a ManyToMany relation.
		Through     string `json:"through,omitempty" yaml:"through,omitempty" msgpack:"through,omitempty"`
		Synthesized bool   `json:"synthesized,omitempty" yaml:"synthesized,omitempty" msgpack:"synthesized,omitempty"`
	}
)

// Table returns the table with the given name, compared case-insensitively.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// Junctions returns the synthesized junction tables.
func (s *Schema) Junctions() []*Table {
	var js []*Table
	for _, t := range s.Tables {
		if t.Junction {
			js = append(js, t)
		}
	}
	return js
}

// ClassName returns the plural class name of the table, as used by the
// generated entity files.
func (t *Table) ClassName(inf naming.Inflector) string {
	if t.Junction {
		return t.Name
	}
	return inf.Plural(naming.ToClassName(t.Name))
}

// Label returns the storage name of the table in snake case.
func (t *Table) Label() string {
	return strings.ToLower(naming.ToSnakeCase(t.Name))
}

// IsJunction reports if the table is a junction table. Junction tables have
// no properties and exactly two ManyToOne relations.
func (t *Table) IsJunction() bool {
	if !t.Junction || len(t.Properties) != 0 || len(t.Relations) != 2 {
		return false
	}
	for _, r := range t.Relations {
		if r.Type != edge.ManyToOne {
			return false
		}
	}
	return true
}
