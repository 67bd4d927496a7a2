// Package edge describes relations between tables of an ER schema.
//
// A relation is declared on the owning table of the document and names its
// target by table name:
//
//	relations:
//	  author:
//	    type: ManyToOne
//	    entity: User
//	    required: true
//
// # Relation Kinds
//
// Kind is a closed set of cardinalities:
//
//   - OneToMany: the table has many rows of the target.
//   - ManyToOne: the table holds a foreign key to the target.
//   - OneToOne: one side holds the foreign key. IsOwner is mandatory.
//   - ManyToMany: both sides are joined through a synthesized junction table.
//     IsOwner is optional and only decides the junction column order.
//
// Every kind except ManyToOne has a reverse kind, see Kind.Reverse.
package edge
