package gen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
	"github.com/syssam/erdgen/schema/field"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func ambiguousDocument() *schema.Document {
	return &schema.Document{Tables: []*schema.Table{
		table("Profile", map[string]*edge.Descriptor{"user": rel(edge.OneToOne, "User")}),
		table("User", nil),
	}}
}

func TestGenerate(t *testing.T) {
	s, r, err := Generate(context.Background(), blogDocument())
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, r)
	assert.False(t, r.HasErrors())
	assert.Len(t, s.Junctions(), 2)
}

func TestGenerateStopsOnValidationErrors(t *testing.T) {
	var buf bytes.Buffer
	s, r, err := Generate(context.Background(), ambiguousDocument(), WithLogger(debugLogger(&buf)))
	require.Error(t, err)
	assert.Nil(t, s)
	require.NotNil(t, r)
	require.Len(t, r.ByCategory(CategoryOwnership), 1)

	var failed *ValidationFailedError
	require.True(t, errors.As(err, &failed))
	assert.Same(t, r, failed.Result)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, errors.Is(err, ErrOwnershipAmbiguous))
	assert.NotContains(t, buf.String(), "schema normalized", "the normalizer must not run")
}

func TestGenerateDuplicateAndDangling(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("Order", nil),
		table("order", nil),
		table("Invoice", map[string]*edge.Descriptor{"client": rel(edge.ManyToOne, "NonExistentTable")}),
	}}
	_, r, err := Generate(context.Background(), doc)
	require.Error(t, err)
	msgs := r.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "duplicate table name")
	assert.Contains(t, msgs[1], "NonExistentTable")
}

func TestGenerateKeepsWarnings(t *testing.T) {
	doc := blogDocument()
	doc.Tables[0].Properties["location"] = &field.Descriptor{Type: "point"}

	var buf bytes.Buffer
	s, r, err := Generate(context.Background(), doc, WithLogger(debugLogger(&buf)))
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `unknown column type \"point\"`)
	assert.Contains(t, buf.String(), "schema normalized")
}

func TestGenerateSymmetryPolicy(t *testing.T) {
	doc := &schema.Document{Tables: []*schema.Table{
		table("User", nil),
		table("Post", map[string]*edge.Descriptor{"author": rel(edge.ManyToOne, "User")}),
	}}
	_, _, err := Generate(context.Background(), doc)
	require.Error(t, err)

	s, r, err := Generate(context.Background(), doc, WithSymmetry(SymmetryAdvisory))
	require.NoError(t, err)
	assert.True(t, r.HasWarnings())
	assert.Contains(t, mustTable(t, s, "Post").Relations, "user_id")
}

func TestGenerateErrors(t *testing.T) {
	t.Run("invalid option", func(t *testing.T) {
		_, _, err := Generate(context.Background(), blogDocument(), WithInflector(nil))
		assert.True(t, IsConfigError(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s, r, err := Generate(ctx, blogDocument())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, s)
		assert.Nil(t, r)
	})
}

func TestGenerateAll(t *testing.T) {
	docs := []*schema.Document{blogDocument(), ambiguousDocument(), nil, blogDocument()}
	outs, err := GenerateAll(context.Background(), docs, WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, outs, len(docs))

	assert.NoError(t, outs[0].Err)
	require.NotNil(t, outs[0].Schema)
	assert.Len(t, outs[0].Schema.Tables, 7)

	assert.True(t, errors.Is(outs[1].Err, ErrOwnershipAmbiguous))
	assert.Nil(t, outs[1].Schema)

	var verr *ValidationError
	assert.True(t, errors.As(outs[2].Err, &verr))
	assert.Equal(t, []string{"document is empty"}, outs[2].Validation.Messages())

	assert.NoError(t, outs[3].Err)
	assert.Equal(t, tableNames(outs[0].Schema), tableNames(outs[3].Schema))
}

func TestGenerateAllSingle(t *testing.T) {
	outs, err := GenerateAll(context.Background(), []*schema.Document{ambiguousDocument()})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Error(t, outs[0].Err)
	assert.NotNil(t, outs[0].Validation)
}

func TestGenerateAllEmpty(t *testing.T) {
	outs, err := GenerateAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outs)
}

func TestGenerateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateAll(ctx, []*schema.Document{blogDocument(), blogDocument()})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = GenerateAll(ctx, []*schema.Document{blogDocument()})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = GenerateAll(context.Background(), nil, WithWorkers(-1))
	assert.True(t, IsConfigError(err))
}
