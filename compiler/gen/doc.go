// Package gen turns an ER schema document into a normalized schema for the
// template renderers.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	schema.Document (editor output)
//	        ↓
//	   Validate (gate, reports every issue)
//	        ↓
//	   Normalize
//	     1. resolve relations under derived keys
//	     2. backfill reverse OneToMany / OneToOne sides
//	     3. register one junction per ManyToMany pair
//	     4. materialize junctions, backfill participants
//	        ↓
//	   Schema (immutable) → Writer / BuildManifest
//
// # Derived Keys
//
// A relation is stored under a key derived from its target, not under the
// key the user typed:
//
//	ManyToOne, OneToOne   → "<snake target>_id"    (author: User → user_id)
//	OneToMany, ManyToMany → "<plural snake target>" (posts: Post → posts)
//
// The entity attribute of a resolved relation is the plural class name of
// the target ("Users").
//
// # Junction Tables
//
// Every unordered pair {A, B} joined by ManyToMany gets exactly one junction
// table named {Singular A}{Plural B} (StudentCourses) with two required
// ManyToOne relations. The owning side (isOwner: true) comes first; without
// an owner the side declared first wins.
//
// # Usage
//
//	s, result, err := gen.Generate(ctx, doc,
//	    gen.WithSymmetry(gen.SymmetryStrict),
//	    gen.WithLogger(logger),
//	)
//	if errors.Is(err, gen.ErrValidationFailed) {
//	    for _, msg := range result.Messages() {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Error Handling
//
// Validation errors are collected and returned as one batch
// (*ValidationFailedError). Normalization errors are fail-fast:
//
//   - *EdgeError: a relation cannot be resolved (ErrInvalidEdge, ErrOwnershipAmbiguous)
//   - *SchemaError: the document is inconsistent (ErrInvalidSchema)
//   - *JunctionError: a junction lost a participant (ErrUnresolvedJunction)
package gen
