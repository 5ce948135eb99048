package gqlshape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/gqlshape/registry"
)

// Standard sentinel errors for type derivation.
var (
	// ErrTypeMapping is returned when a description node matches no
	// classification rule.
	ErrTypeMapping = errors.New("gqlshape: type mapping failed")

	// ErrInvalidOptions is returned when mutually exclusive field filters are
	// combined.
	ErrInvalidOptions = errors.New("gqlshape: invalid options")

	// ErrNameGeneration is returned when no valid GraphQL name can be derived
	// for a nested object.
	ErrNameGeneration = errors.New("gqlshape: name generation failed")

	// ErrUnmappableType is returned when a primitive or registered value has
	// no GraphQL type.
	ErrUnmappableType = registry.ErrUnmappableType
)

// UnmappableTypeError is returned when a primitive or registered value has no
// GraphQL type.
type UnmappableTypeError = registry.UnmappableTypeError

// IsUnmappableType returns true if the error is an UnmappableTypeError.
func IsUnmappableType(err error) bool {
	return registry.IsUnmappableType(err)
}

// TypeMappingError is returned when a description node matches no
// classification rule, or describes a shape that cannot be derived.
type TypeMappingError struct {
	Value  any    // The offending node
	Reason string // Optional detail
}

// Error returns the error string.
func (e *TypeMappingError) Error() string {
	msg := fmt.Sprintf("gqlshape: cannot map %v", e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg + ". Please make sure it is registered by calling:\n" +
		fmt.Sprintf("gqlshape.RegisterTypeMapping(%v, MyGraphQLType)", e.Value)
}

// Is reports whether the target error matches TypeMappingError.
func (e *TypeMappingError) Is(err error) bool {
	return err == ErrTypeMapping
}

// NewTypeMappingError returns a new TypeMappingError for v.
func NewTypeMappingError(v any) *TypeMappingError {
	return &TypeMappingError{Value: v}
}

// IsTypeMapping returns true if the error is a TypeMappingError.
func IsTypeMapping(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMappingError
	return errors.As(err, &e) || errors.Is(err, ErrTypeMapping)
}

// InvalidOptionsError is returned when both Only and Skip are supplied.
type InvalidOptionsError struct {
	Only []string
	Skip []string
}

// Error returns the error string.
func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("gqlshape: only %v and skip %v are mutually exclusive", e.Only, e.Skip)
}

// Is reports whether the target error matches InvalidOptionsError.
func (e *InvalidOptionsError) Is(err error) bool {
	return err == ErrInvalidOptions
}

// NewInvalidOptionsError returns a new InvalidOptionsError.
func NewInvalidOptionsError(only, skip []string) *InvalidOptionsError {
	return &InvalidOptionsError{Only: only, Skip: skip}
}

// IsInvalidOptions returns true if the error is an InvalidOptionsError.
func IsInvalidOptions(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidOptionsError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidOptions)
}

// NameGenerationError wraps a failure to derive a GraphQL name for a node.
type NameGenerationError struct {
	Node any   // The node whose name could not be derived
	Err  error // Underlying error
}

// Error returns the error string.
func (e *NameGenerationError) Error() string {
	return fmt.Sprintf("gqlshape: cannot generate a name for %v: %v", e.Node, e.Err)
}

// Unwrap returns the underlying error.
func (e *NameGenerationError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches NameGenerationError.
func (e *NameGenerationError) Is(err error) bool {
	return err == ErrNameGeneration
}

// NewNameGenerationError returns a new NameGenerationError for node.
func NewNameGenerationError(node any, err error) *NameGenerationError {
	return &NameGenerationError{Node: node, Err: err}
}

// IsNameGeneration returns true if the error is a NameGenerationError.
func IsNameGeneration(err error) bool {
	if err == nil {
		return false
	}
	var e *NameGenerationError
	return errors.As(err, &e) || errors.Is(err, ErrNameGeneration)
}

// AggregateError represents multiple errors collected while deriving several
// entities.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "gqlshape: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("gqlshape: multiple errors:")
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
