package gen

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

// Normalize resolves every relation of the document, synthesizes one junction
// table per ManyToMany pair and backfills the participants. The input is not
// modified. Normalize trusts its input apart from what it cannot resolve;
// run Validate (or use Generate) first to get a full report.
func Normalize(doc *schema.Document, opts ...Option) (*Schema, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return normalize(doc, cfg)
}

type normalizer struct {
	cfg       *Config
	out       *Schema
	byName    map[string]*Table // lowercased name -> table
	pairs     map[string]*junction
	junctions []*junction
}

func normalize(doc *schema.Document, cfg *Config) (*Schema, error) {
	if doc == nil {
		return nil, NewSchemaError("", "", "document is nil", nil)
	}
	n := &normalizer{
		cfg: cfg,
		out: &Schema{
			Tables:          make([]*Table, 0, len(doc.Tables)),
			Root:            doc.Root,
			CharPrimaryKey:  doc.CharPrimaryKey,
			InsertToModules: doc.InsertToModules,
		},
		byName: make(map[string]*Table, len(doc.Tables)),
		pairs:  make(map[string]*junction),
	}
	if err := n.resolve(doc); err != nil {
		return nil, err
	}
	if cfg.BackfillInverse {
		if err := n.backfillInverse(); err != nil {
			return nil, err
		}
	}
	junctions, err := n.backfillJunctions()
	if err != nil {
		return nil, err
	}
	n.out.Tables = append(n.out.Tables, junctions...)
	cfg.Logger.Debug("schema normalized",
		"tables", len(doc.Tables),
		"junctions", len(junctions),
	)
	return n.out, nil
}

// resolve clones every table and attaches its resolved relations under their
// derived keys.
func (n *normalizer) resolve(doc *schema.Document) error {
	for i, t := range doc.Tables {
		if t == nil {
			return NewSchemaError(fmt.Sprintf("#%d", i), "", "table is null", nil)
		}
		if err := checkEntries(t); err != nil {
			return err
		}
		nt := newTable(t.Clone())
		n.out.Tables = append(n.out.Tables, nt)
		if _, ok := n.byName[strings.ToLower(t.Name)]; !ok {
			n.byName[strings.ToLower(t.Name)] = nt
		}
	}
	for i, t := range doc.Tables {
		nt := n.out.Tables[i]
		for _, key := range t.RelationKeys() {
			dk, rel, err := ResolveRelation(key, n.canonical(t.Relations[key]), t.Name, n.cfg.Inflector)
			if err != nil {
				return err
			}
			if prev, ok := nt.Relations[dk]; ok {
				return NewSchemaError(t.Name, key, fmt.Sprintf("derived key %q is already used by relation %q", dk, prev.Name), nil)
			}
			nt.Relations[dk] = rel
			if rel.Type == edge.ManyToMany {
				n.addJunction(t.Name, rel)
			}
		}
	}
	return nil
}

// canonical returns ed with its entity replaced by the declared name of the
// table it refers to, so that every identifier derived from the target is
// spelled the same whichever side it is computed from.
func (n *normalizer) canonical(ed *edge.Descriptor) *edge.Descriptor {
	if ed == nil {
		return nil
	}
	target, ok := n.byName[strings.ToLower(ed.Entity)]
	if !ok || target.Name == ed.Entity {
		return ed
	}
	c := ed.Clone()
	c.Entity = target.Name
	return c
}

// backfillInverse adds the reverse side of every declared OneToMany and
// OneToOne relation that the target table does not declare itself.
func (n *normalizer) backfillInverse() error {
	for _, nt := range n.out.Tables {
		for _, dk := range slices.Sorted(maps.Keys(nt.Relations)) {
			rel := nt.Relations[dk]
			if rel.Synthesized || (rel.Type != edge.OneToMany && rel.Type != edge.OneToOne) {
				continue
			}
			target, ok := n.byName[strings.ToLower(rel.Target)]
			if !ok {
				return NewSchemaError(nt.Name, rel.Name, fmt.Sprintf("entity %q does not exist", rel.Target), nil)
			}
			rk, rev, _ := reverseOf(rel, nt.Name, dk, n.cfg.Inflector)
			if existing, ok := target.Relations[rk]; ok {
				if existing.Type == rev.Type && existing.Inverse == "" {
					existing.Inverse = dk
				}
				continue
			}
			target.Relations[rk] = rev
			n.cfg.Logger.Debug("reverse relation added",
				"table", target.Name,
				"key", rk,
				"type", rev.Type.String(),
			)
		}
	}
	return nil
}

// checkEntries rejects null index and constraint entries, which cannot be
// named.
func checkEntries(t *schema.Table) error {
	for i, idx := range t.Indexes {
		if idx == nil {
			return NewSchemaError(t.Name, fmt.Sprintf("index #%d", i), "index is null", nil)
		}
	}
	for i, c := range t.Constraints {
		if c == nil {
			return NewSchemaError(t.Name, fmt.Sprintf("constraint #%d", i), "constraint is null", nil)
		}
	}
	return nil
}

func newTable(t *schema.Table) *Table {
	nt := &Table{
		Name:                   t.Name,
		Properties:             t.Properties,
		Relations:              make(map[string]*Relation, len(t.Relations)),
		Indexes:                t.Indexes,
		Constraints:            t.Constraints,
		CreatePaginationRoute:  t.CreatePaginationRoute,
		CreateRelationGetRoute: t.CreateRelationGetRoute,
	}
	if nt.Properties == nil {
		nt.Properties = make(map[string]*field.Descriptor)
	}
	label := strings.ToLower(t.Name)
	for _, idx := range nt.Indexes {
		if idx.Name == "" {
			idx.Name = fmt.Sprintf("idx_%s_%s", label, strings.Join(idx.Columns, "_"))
		}
	}
	for i, c := range nt.Constraints {
		c.Type = schema.ConstraintType(strings.ToUpper(string(c.Type)))
		if c.Name != "" {
			continue
		}
		switch c.Type {
		case schema.Unique:
			c.Name = fmt.Sprintf("uniq_%s_%s", label, strings.Join(c.Columns, "_"))
		default:
			c.Name = fmt.Sprintf("chk_%s_%d", label, i)
		}
	}
	return nt
}
