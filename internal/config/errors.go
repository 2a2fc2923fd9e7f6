package config

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrUnsupportedFormat indicates a settings file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported settings format")

	// ErrInvalidValue indicates a setting that failed validation.
	ErrInvalidValue = errors.New("invalid setting value")
)

// ValidationError describes a rejected setting.
type ValidationError struct {
	Path    string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Path, e.Value, e.Message)
}

// Unwrap returns ErrInvalidValue.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}
