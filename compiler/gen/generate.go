package gen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/erdgen/schema"
)

// Generate validates the document and, if it is generation-ready, normalizes
// it. When the validator reports errors, the returned error is a
// *ValidationFailedError and the normalizer is never invoked. The validation
// result is returned in both cases so that callers can show warnings.
func Generate(ctx context.Context, doc *schema.Document, opts ...Option) (*Schema, *ValidationResult, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	return generate(ctx, doc, cfg)
}

func generate(ctx context.Context, doc *schema.Document, cfg *Config) (*Schema, *ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	result := validate(doc, cfg)
	for _, w := range result.Warnings {
		cfg.Logger.Warn(w.Detail(), "category", w.Category.String())
	}
	if result.HasErrors() {
		return nil, result, &ValidationFailedError{Result: result}
	}
	s, err := normalize(doc, cfg)
	if err != nil {
		return nil, result, err
	}
	return s, result, nil
}

// Outcome is the result of generating one document of a batch.
type Outcome struct {
	Schema     *Schema
	Validation *ValidationResult
	Err        error
}

// GenerateAll generates independent documents in parallel. Outcomes are
// returned in input order; a failing document does not stop the others.
// The returned error is only set for configuration errors and cancellation.
func GenerateAll(ctx context.Context, docs []*schema.Document, opts ...Option) ([]Outcome, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	out := make([]Outcome, len(docs))
	if len(docs) == 1 {
		s, r, err := generate(ctx, docs[0], cfg)
		out[0] = Outcome{Schema: s, Validation: r, Err: err}
		return out, ctx.Err()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, doc := range docs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s, r, err := generate(ctx, doc, cfg)
			out[i] = Outcome{Schema: s, Validation: r, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
