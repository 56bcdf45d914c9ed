package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownGarmentType is returned when a record's discriminator is
	// missing or not one of the known garment types.
	ErrUnknownGarmentType = errors.New("unknown garment type")
)

// ValidationError describes a rejected field. It matches ErrValidation and,
// when set, the wrapped Err.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func unknownType(v interface{}) error {
	reason := fmt.Sprintf("%v", v)
	if v == nil {
		reason = "<missing>"
	}
	return &ValidationError{
		Field:  "type",
		Reason: fmt.Sprintf("%s: %s", ErrUnknownGarmentType, reason),
		Err:    ErrUnknownGarmentType,
	}
}
