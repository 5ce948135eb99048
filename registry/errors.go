package registry

import (
	"errors"
	"fmt"
)

// ErrUnmappableType is matched by every UnmappableTypeError.
var ErrUnmappableType = errors.New("gqlshape: unmappable type")

// UnmappableTypeError is returned when a primitive or description value has no
// registered GraphQL type.
type UnmappableTypeError struct {
	Value any
}

// NewUnmappableTypeError returns an UnmappableTypeError for v.
func NewUnmappableTypeError(v any) *UnmappableTypeError {
	return &UnmappableTypeError{Value: v}
}

// Error returns the error string, including the registration call that fixes it.
func (e *UnmappableTypeError) Error() string {
	return fmt.Sprintf("gqlshape: cannot map %v. Please make sure it is registered by calling:\n"+
		"gqlshape.RegisterTypeMapping(%v, MyGraphQLType)", e.Value, e.Value)
}

// Is reports whether err is ErrUnmappableType.
func (e *UnmappableTypeError) Is(err error) bool {
	return err == ErrUnmappableType
}

// IsUnmappableType returns a boolean indicating whether the error is an
// unmappable type error.
func IsUnmappableType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnmappableTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnmappableType)
}
