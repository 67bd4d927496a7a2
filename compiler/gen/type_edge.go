package gen

import (
	"strings"

	"github.com/syssam/erdgen/compiler/naming"
	"github.com/syssam/erdgen/schema/edge"
)

// RelationKey returns the derived key of a relation of the given kind that
// points at target. Foreign-key holding kinds resolve to "<target>_id",
// collection kinds to the plural snake-cased target name:
//
//	RelationKey(edge.ManyToOne, "OrderItem")  // order_item_id
//	RelationKey(edge.OneToMany, "Category")   // categories
//
// A target whose snake form already ends in "_id" does not get the suffix twice.
func RelationKey(k edge.Kind, target string) string {
	snake := strings.ToLower(naming.ToSnakeCase(target))
	switch k {
	case edge.ManyToOne, edge.OneToOne:
		if strings.HasSuffix(snake, "_id") {
			return snake
		}
		return snake + "_id"
	case edge.OneToMany, edge.ManyToMany:
		return strings.ToLower(naming.ToPlural(snake))
	}
	return snake
}

// EntityName returns the class name a relation to target carries in its
// entity attribute.
func EntityName(target string, inf naming.Inflector) string {
	return inf.Plural(naming.ToClassName(target))
}

// JunctionName returns the canonical name of the junction table joining
// a and b, in that order:
//
//	JunctionName("Student", "Course", naming.Simple{}) // StudentCourses
func JunctionName(a, b string, inf naming.Inflector) string {
	return inf.Singular(naming.ToClassName(a)) + inf.Plural(naming.ToClassName(b))
}

// ResolveRelation resolves a single declared relation of table owner. It
// returns the derived key and the resolved relation. The target is not
// checked for existence.
func ResolveRelation(key string, ed *edge.Descriptor, owner string, inf naming.Inflector) (string, *Relation, error) {
	if ed == nil {
		return "", nil, NewEdgeError(owner, "", key, "relation is null", nil)
	}
	if !ed.Type.Valid() {
		return "", nil, NewEdgeError(owner, ed.Entity, key, "unknown relation type "+ed.Type.String(), nil)
	}
	if ed.Type == edge.OneToOne && ed.IsOwner == nil {
		return "", nil, NewEdgeError(owner, ed.Entity, key, "OneToOne relation requires isOwner", ErrOwnershipAmbiguous)
	}
	rel := &Relation{
		Type:     ed.Type,
		Entity:   EntityName(ed.Entity, inf),
		Required: ed.Required,
		Target:   ed.Entity,
		Name:     key,
	}
	if ed.IsOwner != nil {
		rel.IsOwner = edge.Bool(*ed.IsOwner)
	}
	if rk, ok := ed.Type.Reverse(); ok {
		rel.Inverse = RelationKey(rk, owner)
	}
	return RelationKey(ed.Type, ed.Entity), rel, nil
}

// reverseOf builds the relation the target of rel needs to mirror it. It
// reports false for kinds without a synthesized reverse.
func reverseOf(rel *Relation, owner, derivedKey string, inf naming.Inflector) (string, *Relation, bool) {
	rk, ok := rel.Type.Reverse()
	if !ok {
		return "", nil, false
	}
	rev := &Relation{
		Type:        rk,
		Entity:      EntityName(owner, inf),
		Target:      owner,
		Inverse:     derivedKey,
		Synthesized: true,
	}
	if rel.IsOwner != nil {
		rev.IsOwner = edge.Bool(!*rel.IsOwner)
	}
	return RelationKey(rk, owner), rev, true
}

// junctionOrder returns the participants of a ManyToMany relation declared
// on owner in junction column order, and whether the order comes from an
// explicit ownership flag.
func junctionOrder(owner string, rel *Relation) (first, second string, explicit bool) {
	if rel.IsOwner == nil {
		return owner, rel.Target, false
	}
	if *rel.IsOwner {
		return owner, rel.Target, true
	}
	return rel.Target, owner, true
}

// junctionColumns returns the foreign-key columns of a junction joining a
// and b. A self-referencing junction prefixes the second column.
func junctionColumns(a, b string) (string, string) {
	ka, kb := RelationKey(edge.ManyToOne, a), RelationKey(edge.ManyToOne, b)
	if ka == kb {
		kb = "related_" + kb
	}
	return ka, kb
}
