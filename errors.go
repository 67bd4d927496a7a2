package erdgen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors of the engine facade.
var (
	// ErrCorruptCache is returned when a cached schema cannot be decoded.
	ErrCorruptCache = errors.New("erdgen: corrupt cache entry")

	// ErrNoDocument is returned when the engine is given no document.
	ErrNoDocument = errors.New("erdgen: no schema document")
)

// CacheError wraps a cache failure with the key and operation.
type CacheError struct {
	Key string // Cache key
	Op  string // Operation (e.g., "get", "set", "decode")
	Err error  // Underlying error
}

// Error returns the error string.
func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("erdgen: cache %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("erdgen: cache %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *CacheError) Unwrap() error {
	return e.Err
}

// NewCacheError returns a new CacheError.
func NewCacheError(key, op string, err error) *CacheError {
	return &CacheError{Key: key, Op: op, Err: err}
}

// IsCacheError returns true if the error is a CacheError.
func IsCacheError(err error) bool {
	if err == nil {
		return false
	}
	var e *CacheError
	return errors.As(err, &e)
}

// LoadError wraps a failure to read or decode a schema document file.
type LoadError struct {
	Path string
	Err  error
}

// Error returns the error string.
func (e *LoadError) Error() string {
	return fmt.Sprintf("erdgen: loading %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if the error is a LoadError.
func IsLoadError(err error) bool {
	if err == nil {
		return false
	}
	var e *LoadError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during a batch.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "erdgen: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("erdgen: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
