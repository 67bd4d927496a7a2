// Package schema defines the ER schema document exchanged with the editor.
//
// A document is a list of tables. Each table carries its columns, its
// declared relations and optional indexes and constraints:
//
//   - [field]: column descriptors
//   - [edge]: relation descriptors and relation kinds
//
// # Quick Start
//
//	doc := &schema.Document{
//	    Tables: []*schema.Table{
//	        {
//	            Name: "User",
//	            Properties: map[string]*field.Descriptor{
//	                "email": {Type: field.TypeVarchar, Unique: true},
//	            },
//	            Relations: map[string]*edge.Descriptor{
//	                "posts": {Type: edge.OneToMany, Entity: "Post"},
//	            },
//	        },
//	        {
//	            Name: "Post",
//	            Relations: map[string]*edge.Descriptor{
//	                "author": {Type: edge.ManyToOne, Entity: "User", Required: true},
//	            },
//	        },
//	    },
//	}
//
// Documents are inputs only. The compiler/gen package never mutates them; it
// works on clones.
package schema
