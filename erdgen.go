// Package erdgen is the entry point of the schema transformation engine.
//
// It wraps the pipeline of the compiler/gen package (validate, then
// normalize) behind an Engine that can cache normalized schemas:
//
//	eng, err := erdgen.New(gen.WithSymmetry(gen.SymmetryAdvisory))
//	if err != nil {
//		return err
//	}
//	eng = eng.WithCache(erdgen.NewMemoryCache(), time.Hour)
//	s, result, err := eng.GenerateFile(ctx, "schema.json")
//
// The package level Validate, Normalize and Generate functions run the
// pipeline without an engine.
package erdgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
	"github.com/syssam/erdgen/compiler/naming"
	"github.com/syssam/erdgen/schema"
)

// Validate checks the document without normalizing it.
func Validate(doc *schema.Document, opts ...gen.Option) (*gen.ValidationResult, error) {
	return gen.Validate(doc, opts...)
}

// Normalize normalizes the document without validating it first.
func Normalize(doc *schema.Document, opts ...gen.Option) (*gen.Schema, error) {
	return gen.Normalize(doc, opts...)
}

// Generate validates and normalizes the document.
func Generate(ctx context.Context, doc *schema.Document, opts ...gen.Option) (*gen.Schema, *gen.ValidationResult, error) {
	return gen.Generate(ctx, doc, opts...)
}

// Engine runs the pipeline with a fixed configuration. It is safe for
// concurrent use.
type Engine struct {
	cfg   *gen.Config
	opts  []gen.Option
	cache Cache
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns an engine for the given options.
func New(opts ...gen.Option) (*Engine, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, opts: opts}, nil
}

// WithCache makes the engine keep successful results in c for ttl (0 means
// no expiry). Engines sharing a cache must use the same type map, since
// it is not part of the cache key. Custom inflectors are keyed by type only.
func (e *Engine) WithCache(c Cache, ttl time.Duration) *Engine {
	e.cache = c
	e.ttl = ttl
	return e
}

// CacheStats reports cache lookups since the engine was created.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Stats returns the cache statistics of the engine.
func (e *Engine) Stats() CacheStats {
	return CacheStats{Hits: e.hits.Load(), Misses: e.misses.Load()}
}

// Validate checks the document with the engine configuration.
func (e *Engine) Validate(doc *schema.Document) (*gen.ValidationResult, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	return gen.Validate(doc, e.opts...)
}

// cached is the value stored for a key.
type cached struct {
	Schema   *gen.Schema            `msgpack:"schema"`
	Warnings []*gen.ValidationError `msgpack:"warnings"`
}

// Generate validates and normalizes the document, consulting the cache
// first. Cache failures are logged and never fail the call.
func (e *Engine) Generate(ctx context.Context, doc *schema.Document) (*gen.Schema, *gen.ValidationResult, error) {
	if doc == nil {
		return nil, nil, ErrNoDocument
	}
	if e.cache == nil {
		return gen.Generate(ctx, doc, e.opts...)
	}
	key, err := e.Key(doc)
	if err != nil {
		return nil, nil, err
	}
	if s, r, ok := e.lookup(ctx, key.String()); ok {
		return s, r, nil
	}
	s, r, err := gen.Generate(ctx, doc, e.opts...)
	if err != nil {
		return s, r, err
	}
	e.store(ctx, key.String(), s, r)
	return s, r, nil
}

// GenerateFile loads the document at path and generates it.
func (e *Engine) GenerateFile(ctx context.Context, path string) (*gen.Schema, *gen.ValidationResult, error) {
	doc, err := load.Load(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	return e.Generate(ctx, doc)
}

// Invalidate drops every cached result of the document.
func (e *Engine) Invalidate(ctx context.Context, doc *schema.Document) error {
	if e.cache == nil {
		return nil
	}
	digest, err := Digest(doc)
	if err != nil {
		return err
	}
	prefix := DigestPrefix(digest)
	if err := e.cache.DeletePrefix(ctx, prefix); err != nil {
		return NewCacheError(prefix, "delete", err)
	}
	return nil
}

// Key returns the cache key of the document under the engine configuration.
func (e *Engine) Key(doc *schema.Document) (CacheKey, error) {
	digest, err := Digest(doc)
	if err != nil {
		return CacheKey{}, err
	}
	return CacheKey{
		Digest:    digest,
		Inflector: inflectorID(e.cfg.Inflector),
		Symmetry:  e.cfg.Symmetry.String(),
		Backfill:  e.cfg.BackfillInverse,
	}, nil
}

// inflectorID names the inflector in cache keys. Dictionaries with custom
// irregular plurals get a fingerprint of their pairs.
func inflectorID(inf naming.Inflector) string {
	id := fmt.Sprintf("%T", inf)
	if d, ok := inf.(*naming.Dictionary); ok {
		if pairs := d.Irregulars(); len(pairs) > 0 {
			sum := sha256.Sum256([]byte(strings.Join(pairs, ",")))
			id += "+" + hex.EncodeToString(sum[:6])
		}
	}
	return id
}

func (e *Engine) lookup(ctx context.Context, key string) (*gen.Schema, *gen.ValidationResult, bool) {
	buf, err := e.cache.Get(ctx, key)
	if err != nil {
		e.cfg.Logger.Warn("cache lookup failed", "error", NewCacheError(key, "get", err))
		e.misses.Add(1)
		return nil, nil, false
	}
	if buf == nil {
		e.misses.Add(1)
		return nil, nil, false
	}
	var v cached
	if err := msgpack.Unmarshal(buf, &v); err != nil || v.Schema == nil {
		if err == nil {
			err = ErrCorruptCache
		}
		e.cfg.Logger.Warn("dropping cache entry", "error", NewCacheError(key, "decode", err))
		_ = e.cache.Delete(ctx, key)
		e.misses.Add(1)
		return nil, nil, false
	}
	e.hits.Add(1)
	e.cfg.Logger.Debug("cache hit", "key", key)
	return v.Schema, &gen.ValidationResult{Warnings: v.Warnings}, true
}

func (e *Engine) store(ctx context.Context, key string, s *gen.Schema, r *gen.ValidationResult) {
	v := cached{Schema: s}
	if r != nil {
		v.Warnings = r.Warnings
	}
	buf, err := msgpack.Marshal(&v)
	if err != nil {
		e.cfg.Logger.Warn("cache encode failed", "error", NewCacheError(key, "encode", err))
		return
	}
	if err := e.cache.Set(ctx, key, buf, e.ttl); err != nil {
		e.cfg.Logger.Warn("cache store failed", "error", NewCacheError(key, "set", err))
	}
}

// Digest returns the hex SHA-256 digest of the canonical JSON encoding of
// the document. Map keys are sorted by the encoder, so equal documents have
// equal digests regardless of declaration order of their maps.
func Digest(doc *schema.Document) (string, error) {
	if doc == nil {
		return "", ErrNoDocument
	}
	buf, err := load.MarshalDocument(doc, load.JSON)
	if err != nil {
		return "", fmt.Errorf("erdgen: digest: %w", err)
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}
