package gen

import (
	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

func table(name string, rels map[string]*edge.Descriptor) *schema.Table {
	if rels == nil {
		rels = map[string]*edge.Descriptor{}
	}
	return &schema.Table{
		Name:       name,
		Properties: map[string]*field.Descriptor{"name": {Type: field.TypeVarchar}},
		Relations:  rels,
	}
}

func rel(k edge.Kind, entity string) *edge.Descriptor {
	return &edge.Descriptor{Type: k, Entity: entity}
}

func owned(k edge.Kind, entity string, owner bool) *edge.Descriptor {
	return &edge.Descriptor{Type: k, Entity: entity, IsOwner: edge.Bool(owner)}
}

// blogDocument is a valid document with every relation kind.
func blogDocument() *schema.Document {
	return &schema.Document{
		Root: "src",
		Tables: []*schema.Table{
			table("User", map[string]*edge.Descriptor{
				"posts":   rel(edge.OneToMany, "Post"),
				"profile": owned(edge.OneToOne, "Profile", true),
				"groups":  owned(edge.ManyToMany, "Group", true),
			}),
			table("Post", map[string]*edge.Descriptor{
				"author": {Type: edge.ManyToOne, Entity: "User", Required: true},
				"tags":   rel(edge.ManyToMany, "Tag"),
			}),
			table("Profile", map[string]*edge.Descriptor{
				"user": owned(edge.OneToOne, "User", false),
			}),
			table("Group", map[string]*edge.Descriptor{
				"users": owned(edge.ManyToMany, "User", false),
			}),
			table("Tag", map[string]*edge.Descriptor{
				"posts": rel(edge.ManyToMany, "Post"),
			}),
		},
	}
}
