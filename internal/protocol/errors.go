package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPayload = errors.New("protocol: malformed payload")
	ErrValidation       = errors.New("protocol: validation failed")
	ErrReservedBodyKey  = errors.New("protocol: reserved body key in extra")
)

// ValidationError names the field that broke a semantic rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
