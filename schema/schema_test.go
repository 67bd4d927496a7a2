package schema_test

import (
	"testing"

	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *schema.Document {
	return &schema.Document{
		Tables: []*schema.Table{
			{
				Name: "User",
				Properties: map[string]*field.Descriptor{
					"name":  {Type: field.TypeVarchar},
					"email": {Type: field.TypeVarchar, Unique: true},
				},
				Relations: map[string]*edge.Descriptor{
					"posts":   {Type: edge.OneToMany, Entity: "Post"},
					"profile": {Type: edge.OneToOne, Entity: "Profile", IsOwner: edge.Bool(true)},
				},
				Indexes: []*schema.Index{{Columns: []string{"email"}, Unique: true}},
			},
			{Name: "Post"},
		},
	}
}

func TestLookup(t *testing.T) {
	doc := testDocument()

	tbl, ok := doc.Lookup("user")
	require.True(t, ok)
	assert.Equal(t, "User", tbl.Name)

	_, ok = doc.Lookup("Comment")
	assert.False(t, ok)
	_, ok = doc.Lookup("")
	assert.False(t, ok)
	_, ok = (*schema.Document)(nil).Lookup("User")
	assert.False(t, ok)
}

func TestSortedKeys(t *testing.T) {
	tbl := testDocument().Tables[0]
	assert.Equal(t, []string{"email", "name"}, tbl.PropertyNames())
	assert.Equal(t, []string{"posts", "profile"}, tbl.RelationKeys())
	assert.True(t, tbl.HasProperty("EMAIL"))
	assert.False(t, tbl.HasProperty("age"))
}

func TestClone(t *testing.T) {
	doc := testDocument()
	c := doc.Clone()

	c.Tables[0].Name = "Account"
	c.Tables[0].Properties["email"].Unique = false
	c.Tables[0].Relations["posts"].Entity = "Article"
	*c.Tables[0].Relations["profile"].IsOwner = false
	c.Tables[0].Indexes[0].Columns[0] = "name"

	orig := doc.Tables[0]
	assert.Equal(t, "User", orig.Name)
	assert.True(t, orig.Properties["email"].Unique)
	assert.Equal(t, "Post", orig.Relations["posts"].Entity)
	assert.True(t, *orig.Relations["profile"].IsOwner)
	assert.Equal(t, "email", orig.Indexes[0].Columns[0])

	assert.Nil(t, c.Tables[1].Indexes)
	assert.Nil(t, (*schema.Document)(nil).Clone())
}

func TestCloneKeepsNullEntries(t *testing.T) {
	tbl := &schema.Table{
		Name:        "User",
		Indexes:     []*schema.Index{nil, {Columns: []string{"email"}}},
		Constraints: []*schema.Constraint{nil},
	}
	c := tbl.Clone()
	require.Len(t, c.Indexes, 2)
	assert.Nil(t, c.Indexes[0])
	assert.Equal(t, []string{"email"}, c.Indexes[1].Columns)
	require.Len(t, c.Constraints, 1)
	assert.Nil(t, c.Constraints[0])
}
