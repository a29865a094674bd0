// Package errs holds the error taxonomy shared by the corruption engine.
//
// ConfigError is raised while a composite is being built, BoundsError while a
// transcript target is resolved, OperationError from inside a plan step.
// Backend unavailability is deliberately not part of this taxonomy; it is
// handled by the pipeline and never reaches callers.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConfig    = errors.New("configuration error")
	ErrBounds    = errors.New("index out of bounds")
	ErrOperation = errors.New("operation error")
)

// ConfigError reports an invalid target, pattern, seed or transform reference.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error        { return e.Err }
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Config builds a ConfigError from a format string.
func Config(op, format string, args ...any) error {
	return &ConfigError{Op: op, Err: fmt.Errorf(format, args...)}
}

// BoundsError reports a transcript index that falls outside [0, Len).
type BoundsError struct {
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("transcript index %d out of bounds for %d turns", e.Index, e.Len)
}

func (e *BoundsError) Is(target error) bool { return target == ErrBounds }

// OperationError reports a transform that could not produce a result.
type OperationError struct {
	Transform string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Transform, e.Err)
}

func (e *OperationError) Unwrap() error        { return e.Err }
func (e *OperationError) Is(target error) bool { return target == ErrOperation }

// Operation wraps err for the named transform unless it already is one.
func Operation(name string, err error) error {
	if err == nil {
		return nil
	}
	var oe *OperationError
	if errors.As(err, &oe) {
		return err
	}
	return &OperationError{Transform: name, Err: err}
}

// Class names the category of err for metrics labels.
func Class(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrBounds):
		return "bounds"
	case errors.Is(err, ErrOperation):
		return "operation"
	default:
		return "other"
	}
}
