package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/erdgen/compiler/naming"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

// junction is a ManyToMany pair waiting to be materialized. first and second
// are the participant table names in column order.
type junction struct {
	first, second string
	// explicit is set when the order comes from an isOwner flag rather than
	// traversal order.
	explicit bool
}

// name returns the provisional name of the junction, used before the
// participants are resolved.
func (j *junction) name() string {
	return naming.ToClassName(j.first) + naming.ToClassName(j.second)
}

// pairKey identifies the unordered pair {a, b}.
func pairKey(a, b string) string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// addJunction registers the junction of a ManyToMany relation declared on
// owner. Repeated declarations of the same pair collapse into the first one;
// an explicit owner overrides a traversal-order guess.
func (n *normalizer) addJunction(owner string, rel *Relation) {
	first, second, explicit := junctionOrder(owner, rel)
	key := pairKey(first, second)
	if j, ok := n.pairs[key]; ok {
		if explicit && !j.explicit {
			j.first, j.second, j.explicit = first, second, true
		}
		n.cfg.Logger.Debug("junction deduplicated", "junction", j.name(), "declared_on", owner)
		return
	}
	j := &junction{first: first, second: second, explicit: explicit}
	n.pairs[key] = j
	n.junctions = append(n.junctions, j)
}

// backfillJunctions materializes every registered junction. Each participant
// gains a ManyToMany relation to the other side (unless it declared one) and
// the junction gets its canonical name. A participant that cannot be found
// aborts normalization.
func (n *normalizer) backfillJunctions() ([]*Table, error) {
	tables := make([]*Table, 0, len(n.junctions))
	for _, j := range n.junctions {
		a, ok := n.byName[strings.ToLower(j.first)]
		if !ok {
			return nil, NewJunctionError(j.name(), j.first, "participant table does not exist")
		}
		b, ok := n.byName[strings.ToLower(j.second)]
		if !ok {
			return nil, NewJunctionError(j.name(), j.second, "participant table does not exist")
		}
		name := JunctionName(a.Name, b.Name, n.cfg.Inflector)
		if t, ok := n.byName[strings.ToLower(name)]; ok {
			return nil, NewSchemaError(t.Name, "", fmt.Sprintf("table name collides with the junction of %q and %q", a.Name, b.Name), nil)
		}
		ka, kb := junctionColumns(a.Name, b.Name)
		jt := &Table{
			Name:       name,
			Properties: make(map[string]*field.Descriptor),
			Relations: map[string]*Relation{
				ka: n.junctionEdge(a),
				kb: n.junctionEdge(b),
			},
			Junction: true,
		}
		if err := n.link(a, b, j, name); err != nil {
			return nil, err
		}
		if a != b {
			if err := n.link(b, a, j, name); err != nil {
				return nil, err
			}
		}
		n.byName[strings.ToLower(name)] = jt
		tables = append(tables, jt)
		n.cfg.Logger.Debug("junction created", "junction", name, "first", a.Name, "second", b.Name)
	}
	return tables, nil
}

func (n *normalizer) junctionEdge(t *Table) *Relation {
	return &Relation{
		Type:        edge.ManyToOne,
		Entity:      EntityName(t.Name, n.cfg.Inflector),
		Required:    true,
		Target:      t.Name,
		Synthesized: true,
	}
}

// link points the ManyToMany relation of p towards other at the junction,
// creating the relation if p did not declare it.
func (n *normalizer) link(p, other *Table, j *junction, through string) error {
	key := RelationKey(edge.ManyToMany, other.Name)
	if rel, ok := p.Relations[key]; ok {
		if rel.Type != edge.ManyToMany {
			return NewSchemaError(p.Name, rel.Name, fmt.Sprintf("key %q is needed for the ManyToMany relation with %q", key, other.Name), nil)
		}
		rel.Through = through
		return nil
	}
	rel := &Relation{
		Type:        edge.ManyToMany,
		Entity:      EntityName(other.Name, n.cfg.Inflector),
		Target:      other.Name,
		Inverse:     RelationKey(edge.ManyToMany, p.Name),
		Through:     through,
		Synthesized: true,
	}
	if j.explicit {
		rel.IsOwner = edge.Bool(strings.EqualFold(p.Name, j.first))
	}
	p.Relations[key] = rel
	return nil
}
