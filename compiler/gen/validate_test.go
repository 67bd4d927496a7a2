package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

func mustValidate(t *testing.T, doc *schema.Document, opts ...Option) *ValidationResult {
	t.Helper()
	r, err := Validate(doc, opts...)
	require.NoError(t, err)
	return r
}

func TestValidateValidDocument(t *testing.T) {
	r := mustValidate(t, blogDocument())
	assert.False(t, r.HasErrors(), r.String())
	assert.False(t, r.HasWarnings(), r.String())
	assert.Empty(t, r.Messages())
	assert.Equal(t, "No issues found", r.String())
}

func TestValidateDoesNotMutate(t *testing.T) {
	doc := blogDocument()
	before := doc.Clone()
	mustValidate(t, doc)
	assert.Equal(t, before, doc)
}

func TestValidateTableNames(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("Order", nil),
		table("order", nil),
		table("", nil),
		nil,
	}}
	r := mustValidate(t, doc)
	msgs := r.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, `Table "order": duplicate table name (conflicts with "Order")`, msgs[0])
	assert.Equal(t, `Table "#2": table name is required`, msgs[1])
	assert.Equal(t, `Table "#3": table is null`, msgs[2])
	for _, e := range r.Errors {
		assert.Equal(t, CategoryStructural, e.Category)
	}
}

func TestValidateColumns(t *testing.T) {
	tbl := table("User", nil)
	tbl.Properties = map[string]*field.Descriptor{
		"Email":   {Type: field.TypeVarchar},
		"email":   {Type: field.TypeVarchar},
		"status":  {Type: field.TypeEnum, Enum: []string{"active"}},
		"role":    {Type: field.TypeEnum},
		"kind":    {Type: field.TypeEnum, Enum: []string{"a"}, UseDBEnum: new(bool)},
		"geo":     {Type: "geometry"},
		"blob":    {Type: "booleen"},
		"nothing": {},
	}
	r := mustValidate(t, &schema.Document{Tables: []*schema.Table{tbl}})
	msgs := r.Messages()
	assert.Contains(t, msgs, `Table "User" -> column "email": duplicate column name (conflicts with "Email")`)
	assert.Contains(t, msgs, `Table "User" -> column "status": dbEnumName is required when useDbEnum is enabled`)
	assert.Contains(t, msgs, `Table "User" -> column "role": enum column requires values`)
	assert.Contains(t, msgs, `Table "User" -> column "nothing": column type is required`)
	for _, m := range msgs {
		assert.NotContains(t, m, `"kind"`, "enum without native type needs no dbEnumName")
	}

	require.Len(t, r.Warnings, 2)
	assert.Equal(t, CategoryAdvisory, r.Warnings[0].Category)
	assert.Contains(t, r.Warnings[0].Detail(), `unknown column type "booleen"`)
	assert.Contains(t, r.Warnings[0].Detail(), `did you mean "boolean"?`)
	assert.Contains(t, r.Warnings[1].Detail(), `unknown column type "geometry" maps to any`)
	assert.NotContains(t, r.Warnings[1].Detail(), "did you mean")
}

func TestValidateDanglingReference(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("Invoice", map[string]*edge.Descriptor{
			"client": rel(edge.ManyToOne, "NonExistentTable"),
			"owner":  rel(edge.ManyToOne, ""),
		}),
		table("Client", nil),
	}}
	r := mustValidate(t, doc)
	msgs := r.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, `Table "Invoice" -> relation "client": entity "NonExistentTable" does not exist`, msgs[0])
	assert.Equal(t, `Table "Invoice" -> relation "owner": relation has no target entity`, msgs[1])

	doc.Tables[0].Relations = map[string]*edge.Descriptor{"client": rel(edge.ManyToOne, "Clinet")}
	r = mustValidate(t, doc, WithSymmetry(SymmetryAdvisory))
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0].Detail(), `did you mean "Client"?`)
}

func TestValidateCaseInsensitiveTarget(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("User", map[string]*edge.Descriptor{"posts": rel(edge.OneToMany, "post")}),
		table("Post", map[string]*edge.Descriptor{"author": rel(edge.ManyToOne, "USER")}),
	}}
	r := mustValidate(t, doc)
	assert.False(t, r.HasErrors(), r.String())
}

func TestValidateDerivedKeysUseTableName(t *testing.T) {
	order := table("Order", map[string]*edge.Descriptor{
		"item": rel(edge.ManyToOne, "orderitem"),
		"line": rel(edge.ManyToOne, "OrderItem"),
	})
	order.Indexes = []*schema.Index{{Columns: []string{"order_item_id"}}}
	doc := &schema.Document{Tables: []*schema.Table{
		table("OrderItem", map[string]*edge.Descriptor{"orders": rel(edge.OneToMany, "Order")}),
		order,
	}}
	r := mustValidate(t, doc)
	assert.Equal(t, []string{
		`Table "Order" -> relation "line": resolves to key "order_item_id", already used by relation "item"`,
	}, r.Messages())
}

func TestValidateOwnership(t *testing.T) {
	t.Run("OneToOne without isOwner", func(t *testing.T) {
		doc := &schema.Document{Tables: []*schema.Table{
			table("Profile", map[string]*edge.Descriptor{"user": rel(edge.OneToOne, "User")}),
			table("User", nil),
		}}
		r := mustValidate(t, doc)
		require.True(t, r.HasErrors())
		errs := r.ByCategory(CategoryOwnership)
		require.Len(t, errs, 1)
		assert.Equal(t, `Table "Profile" -> relation "user": OneToOne relation requires isOwner`, errs[0].Detail())
	})

	t.Run("both sides own a OneToOne", func(t *testing.T) {
		doc := &schema.Document{Tables: []*schema.Table{
			table("User", map[string]*edge.Descriptor{"profile": owned(edge.OneToOne, "Profile", true)}),
			table("Profile", map[string]*edge.Descriptor{"user": owned(edge.OneToOne, "User", true)}),
		}}
		r := mustValidate(t, doc)
		errs := r.ByCategory(CategoryOwnership)
		require.Len(t, errs, 1, "a conflicting pair is reported once")
		assert.Contains(t, errs[0].Detail(), `both sides of the OneToOne relation with "Profile" declare isOwner=true`)
	})

	t.Run("both sides own a ManyToMany", func(t *testing.T) {
		doc := &schema.Document{Tables: []*schema.Table{
			table("Student", map[string]*edge.Descriptor{"courses": owned(edge.ManyToMany, "Course", true)}),
			table("Course", map[string]*edge.Descriptor{"students": owned(edge.ManyToMany, "Student", true)}),
		}}
		r := mustValidate(t, doc)
		require.Len(t, r.ByCategory(CategoryOwnership), 1)

		doc.Tables[1].Relations["students"].IsOwner = edge.Bool(false)
		r = mustValidate(t, doc)
		assert.False(t, r.HasErrors(), r.String())
	})
}

func TestValidateSymmetry(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("User", nil),
		table("Post", map[string]*edge.Descriptor{"author": rel(edge.ManyToOne, "User")}),
		table("Blog", map[string]*edge.Descriptor{"posts": rel(edge.OneToMany, "Post")}),
	}}

	t.Run("strict", func(t *testing.T) {
		r := mustValidate(t, doc)
		errs := r.ByCategory(CategorySymmetry)
		require.Len(t, errs, 2)
		assert.Equal(t, `Table "Post" -> relation "author": ManyToOne relation has no OneToMany counterpart on "User"`, errs[0].Detail())
		assert.Equal(t, `Table "Blog" -> relation "posts": OneToMany relation has no ManyToOne counterpart on "Post"`, errs[1].Detail())
		assert.Empty(t, r.ByCategory(CategoryStructural))
	})

	t.Run("advisory", func(t *testing.T) {
		r := mustValidate(t, doc, WithSymmetry(SymmetryAdvisory))
		assert.False(t, r.HasErrors())
		require.Len(t, r.Warnings, 2)
		for _, w := range r.Warnings {
			assert.Equal(t, CategorySymmetry, w.Category)
		}
	})
}

func TestValidateDerivedKeys(t *testing.T) {
	tbl := table("Message", map[string]*edge.Descriptor{
		"sender":   rel(edge.ManyToOne, "User"),
		"receiver": rel(edge.ManyToOne, "User"),
	})
	tbl.Properties["user_id"] = &field.Descriptor{Type: field.TypeInt}
	doc := &schema.Document{Tables: []*schema.Table{
		tbl,
		table("User", map[string]*edge.Descriptor{"messages": rel(edge.OneToMany, "Message")}),
	}}
	r := mustValidate(t, doc)
	msgs := r.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, `Table "Message" -> relation "sender": resolves to key "user_id", already used by relation "receiver"`, msgs[0])
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0].Detail(), "shadows a column")
}

func TestValidateUnknownRelationType(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("User", map[string]*edge.Descriptor{"x": {Type: edge.Unknown, Entity: "User"}}),
	}}
	r := mustValidate(t, doc)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0].Detail(), "unknown relation type (use one of OneToMany, ManyToOne, OneToOne, ManyToMany)")
}

func TestValidateIndexesAndConstraints(t *testing.T) {
	tbl := table("Post", map[string]*edge.Descriptor{"author": rel(edge.ManyToOne, "User")})
	tbl.Indexes = []*schema.Index{
		{Columns: []string{"name", "user_id"}},
		{Name: "idx_bad", Columns: []string{"title"}},
		{},
	}
	tbl.Constraints = []*schema.Constraint{
		{Type: "check", Expression: "length(name) > 0"},
		{Type: schema.Check, Name: "chk_empty"},
		{Type: schema.Unique},
		{Type: "PRIMARY", Columns: []string{"name"}},
	}
	doc := &schema.Document{Tables: []*schema.Table{
		tbl,
		table("User", map[string]*edge.Descriptor{"posts": rel(edge.OneToMany, "Post")}),
	}}
	r := mustValidate(t, doc)
	assert.Equal(t, []string{
		`Table "Post" -> index "idx_bad": unknown column "title"`,
		`Table "Post" -> index #2: index requires at least one column`,
		`Table "Post" -> constraint "chk_empty": CHECK constraint requires an expression`,
		`Table "Post" -> constraint #2: UNIQUE constraint requires at least one column`,
		`Table "Post" -> constraint #3: unknown constraint type "PRIMARY" (use CHECK or UNIQUE)`,
	}, r.Messages())
}

func TestValidateNilDocument(t *testing.T) {
	r := mustValidate(t, nil)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "document is empty", r.Messages()[0])
}

func TestValidateDeterministic(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("A", map[string]*edge.Descriptor{
			"z": rel(edge.ManyToOne, "Missing1"),
			"m": rel(edge.OneToOne, "B"),
			"a": rel(edge.ManyToOne, "Missing2"),
		}),
		table("B", nil),
	}}
	first := mustValidate(t, doc).String()
	for range 10 {
		assert.Equal(t, first, mustValidate(t, doc).String())
	}
	assert.True(t, strings.Index(first, "Missing2") < strings.Index(first, "Missing1"), "relations are reported in key order")
}

func TestValidationResultString(t *testing.T) {
	r := &ValidationResult{
		Errors:   []*ValidationError{{Table: "A", Message: "bad", Category: CategoryStructural}},
		Warnings: []*ValidationError{{Table: "B", Message: "meh", Category: CategoryAdvisory}},
	}
	s := r.String()
	assert.Contains(t, s, "Errors:\n  - [structural] Table \"A\": bad\n")
	assert.Contains(t, s, "Warnings:\n  - [advisory] Table \"B\": meh\n")
}
