package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/syssam/erdgen/compiler/naming"
)

// SymmetryPolicy decides how a ManyToOne/OneToMany pair with a missing
// counterpart is reported.
type SymmetryPolicy int

// Symmetry policies.
const (
	// SymmetryStrict reports missing counterparts as errors.
	SymmetryStrict SymmetryPolicy = iota
	// SymmetryAdvisory reports missing counterparts as warnings.
	SymmetryAdvisory
)

// String returns the policy name.
func (p SymmetryPolicy) String() string {
	if p == SymmetryAdvisory {
		return "advisory"
	}
	return "strict"
}

// ParseSymmetryPolicy parses a policy name.
func ParseSymmetryPolicy(s string) (SymmetryPolicy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return SymmetryStrict, nil
	case "advisory":
		return SymmetryAdvisory, nil
	}
	return SymmetryStrict, fmt.Errorf("unknown symmetry policy %q (use strict or advisory)", s)
}

// Config holds the settings shared by the validator and the normalizer.
type Config struct {
	// Inflector builds class and junction names. Relation keys always use
	// the suffix rules of the naming package.
	Inflector naming.Inflector
	// Symmetry controls how missing counterpart relations are reported.
	Symmetry SymmetryPolicy
	// TypeMap maps column types to renderer types.
	TypeMap *TypeMap
	// BackfillInverse adds the missing reverse side of OneToMany and
	// OneToOne relations during normalization.
	BackfillInverse bool
	// Workers bounds the parallelism of GenerateAll.
	Workers int
	Logger  *slog.Logger
}

// Option configures validation and normalization.
type Option func(*Config) error

// WithInflector sets the inflector used for class and junction names.
func WithInflector(inf naming.Inflector) Option {
	return func(c *Config) error {
		if inf == nil {
			return NewConfigError("Inflector", nil, "inflector cannot be nil")
		}
		c.Inflector = inf
		return nil
	}
}

// WithSymmetry sets the symmetry policy.
func WithSymmetry(p SymmetryPolicy) Option {
	return func(c *Config) error {
		switch p {
		case SymmetryStrict, SymmetryAdvisory:
			c.Symmetry = p
			return nil
		}
		return NewConfigError("Symmetry", int(p), "unsupported symmetry policy; use SymmetryStrict or SymmetryAdvisory")
	}
}

// WithTypeMap sets the column type map.
func WithTypeMap(m *TypeMap) Option {
	return func(c *Config) error {
		if m == nil {
			return NewConfigError("TypeMap", nil, "type map cannot be nil")
		}
		c.TypeMap = m
		return nil
	}
}

// WithBackfillInverse toggles the reverse relation backfill.
func WithBackfillInverse(enabled bool) Option {
	return func(c *Config) error {
		c.BackfillInverse = enabled
		return nil
	}
}

// WithWorkers sets the number of documents GenerateAll processes at once.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Inflector:       naming.Simple{},
		Symmetry:        SymmetryStrict,
		TypeMap:         DefaultTypeMap(),
		BackfillInverse: true,
		Workers:         runtime.GOMAXPROCS(0),
		Logger:          slog.New(slog.DiscardHandler),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
