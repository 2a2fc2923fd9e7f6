package binding

import (
	"errors"
	"fmt"
)

// Resolution and capability errors.
var (
	// ErrNoSurface indicates no target surface is bound.
	ErrNoSurface = errors.New("no surface bound")

	// ErrNoDocument indicates the bound surface shows no document.
	ErrNoDocument = errors.New("no document resolved")

	// ErrNoLayer indicates the selected layer cannot be determined.
	ErrNoLayer = errors.New("no layer selected")

	// ErrCapabilityUnavailable indicates the bound surface lacks an optional
	// capability such as graph rebuild.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)

// HostError records a panic raised by host code during a call made on its
// behalf.
type HostError struct {
	Op    string // Operation name (e.g., "focus", "rebuild")
	Value any    // Recovered panic value
}

func (e *HostError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("host %s: panic: %v", e.Op, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *HostError) Unwrap() error {
	if e == nil {
		return nil
	}
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Guard runs fn and converts a panic into a *HostError.
func Guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HostError{Op: op, Value: r}
		}
	}()
	fn()
	return nil
}
