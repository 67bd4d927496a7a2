package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through their Is methods.
var (
	// ErrInvalidSchema indicates a schema document the normalizer cannot work with.
	ErrInvalidSchema = errors.New("erdgen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("erdgen: missing configuration")
	// ErrInvalidEdge indicates a relation definition error.
	ErrInvalidEdge = errors.New("erdgen: invalid relation definition")
	// ErrOwnershipAmbiguous indicates a OneToOne relation without isOwner.
	ErrOwnershipAmbiguous = errors.New("erdgen: ambiguous relation ownership")
	// ErrUnresolvedJunction indicates a junction table whose participants are gone.
	ErrUnresolvedJunction = errors.New("erdgen: unresolved junction table")
	// ErrGenerationFailed indicates an output failure.
	ErrGenerationFailed = errors.New("erdgen: generation failed")
	// ErrValidationFailed indicates a validation failure.
	ErrValidationFailed = errors.New("erdgen: validation failed")
)

// SchemaError is a fatal problem the normalizer found in a document it was
// not able to resolve, such as a missing table or a taken key.
type SchemaError struct {
	Table   string
	Field   string // Column or relation key (if applicable)
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("erdgen: schema error")
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError returns a SchemaError for fieldName of table.
func NewSchemaError(table, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{Table: table, Field: fieldName, Message: message, Cause: cause}
}

// ConfigError is returned by options given an unusable value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("erdgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("erdgen: config error for %q: %s", e.Option, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// EdgeError is returned by ResolveRelation for a relation it cannot resolve
// on its own.
type EdgeError struct {
	From    string
	To      string
	Edge    string
	Message string
	Cause   error
}

func (e *EdgeError) Error() string {
	var b strings.Builder
	b.WriteString("erdgen: relation error")
	if e.Edge != "" {
		b.WriteString(" on relation ")
		b.WriteString(e.Edge)
	}
	if e.From != "" && e.To != "" {
		fmt.Fprintf(&b, " (%s -> %s)", e.From, e.To)
	} else if e.From != "" {
		b.WriteString(" from ")
		b.WriteString(e.From)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *EdgeError) Unwrap() error {
	return e.Cause
}

func (e *EdgeError) Is(target error) bool {
	return target == ErrInvalidEdge
}

// NewEdgeError returns an EdgeError for relation edgeName declared on from.
func NewEdgeError(from, to, edgeName, message string, cause error) *EdgeError {
	return &EdgeError{From: from, To: to, Edge: edgeName, Message: message, Cause: cause}
}

// JunctionError is returned when a synthesized junction table can no longer
// be decomposed into two live participant tables.
type JunctionError struct {
	Junction    string
	Participant string
	Message     string
}

func (e *JunctionError) Error() string {
	var b strings.Builder
	b.WriteString("erdgen: junction error")
	if e.Junction != "" {
		b.WriteString(" on ")
		b.WriteString(e.Junction)
	}
	if e.Participant != "" {
		fmt.Fprintf(&b, " (participant %q)", e.Participant)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *JunctionError) Is(target error) bool {
	return target == ErrUnresolvedJunction
}

func NewJunctionError(junction, participant, message string) *JunctionError {
	return &JunctionError{Junction: junction, Participant: participant, Message: message}
}

// GenerationError is an encoding or file system failure of the writer.
type GenerationError struct {
	Phase   string // "encode" or "write"
	File    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("erdgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError returns a GenerationError of phase for file.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

// Category classifies a validation issue.
type Category int

// Validation categories.
const (
	CategoryStructural Category = iota // Duplicate names, dangling references.
	CategoryOwnership                  // Missing or conflicting isOwner.
	CategorySymmetry                   // Missing counterpart relation.
	CategoryAdvisory                   // Hints that never block generation on their own.
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStructural:
		return "structural"
	case CategoryOwnership:
		return "ownership"
	case CategorySymmetry:
		return "symmetry"
	case CategoryAdvisory:
		return "advisory"
	}
	return "unknown"
}

// ValidationError is one issue reported by the validator. It is an error
// or a warning depending on the ValidationResult list that holds it.
type ValidationError struct {
	Table    string
	Field    string // column, relation, index or constraint, quoted
	Message  string
	Category Category
}

// Detail returns the message in the form shown to users:
//
//	Table "Post" -> relation "author": entity "Usr" does not exist
func (e *ValidationError) Detail() string {
	var b strings.Builder
	if e.Table != "" {
		fmt.Fprintf(&b, "Table %q", e.Table)
	}
	if e.Field != "" {
		if b.Len() > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(e.Field)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "erdgen: " + e.Category.String() + " error: " + e.Detail()
}

// Is reports whether the target matches the sentinel error for ValidationError.
// Ownership issues also match ErrOwnershipAmbiguous.
func (e *ValidationError) Is(target error) bool {
	if target == ErrOwnershipAmbiguous {
		return e.Category == CategoryOwnership
	}
	return target == ErrValidationFailed
}

// NewValidationError returns an issue of category c.
func NewValidationError(c Category, table, fieldName, message string) *ValidationError {
	return &ValidationError{Table: table, Field: fieldName, Message: message, Category: c}
}

// ValidationFailedError is returned by Generate when the validator reports
// errors. It wraps every reported error.
type ValidationFailedError struct {
	Result *ValidationResult
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	n := len(e.Result.Errors)
	if n == 0 {
		return ErrValidationFailed.Error()
	}
	msg := fmt.Sprintf("%s: %s", ErrValidationFailed, e.Result.Errors[0].Detail())
	if n > 1 {
		msg += fmt.Sprintf(" (and %d more)", n-1)
	}
	return msg
}

func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Unwrap returns the individual validation errors.
func (e *ValidationFailedError) Unwrap() []error {
	errs := make([]error, len(e.Result.Errors))
	for i, err := range e.Result.Errors {
		errs[i] = err
	}
	return errs
}

// IsSchemaError reports whether err wraps a *SchemaError.
func IsSchemaError(err error) bool { return isA[*SchemaError](err) }

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool { return isA[*ConfigError](err) }

// IsEdgeError reports whether err wraps an *EdgeError.
func IsEdgeError(err error) bool { return isA[*EdgeError](err) }

// IsJunctionError reports whether err wraps a *JunctionError.
func IsJunctionError(err error) bool { return isA[*JunctionError](err) }

// IsGenerationError reports whether err wraps a *GenerationError.
func IsGenerationError(err error) bool { return isA[*GenerationError](err) }

func isA[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

