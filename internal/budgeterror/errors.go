// Package budgeterror defines the error types shared by the simulation and advice packages.
package budgeterror

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid budget input")

// InvalidInputError reports a BudgetInput that cannot be simulated.
// It is returned before any month is generated.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid input: %s='%s': %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Is lets callers match any InvalidInputError with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInput builds an InvalidInputError, formatting value with %v.
func NewInvalidInput(field string, value interface{}, reason string) *InvalidInputError {
	v := ""
	if value != nil {
		v = fmt.Sprintf("%v", value)
	}
	return &InvalidInputError{Field: field, Value: v, Reason: reason}
}

// AIErrorKind classifies why a language-model call did not produce advice.
type AIErrorKind string

const (
	AIUnreachable   AIErrorKind = "unreachable"
	AIModelNotFound AIErrorKind = "model_not_found"
	AITimeout       AIErrorKind = "timeout"
	AIMalformed     AIErrorKind = "malformed"
)

// AIBackendError represents a failed call to a language-model backend.
// The advisor absorbs these; they are only ever logged.
type AIBackendError struct {
	Backend string
	Kind    AIErrorKind
	Err     error
}

func (e *AIBackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s backend %s: %v", e.Backend, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s backend %s", e.Backend, e.Kind)
}

func (e *AIBackendError) Unwrap() error {
	return e.Err
}

// NewAIBackendError wraps err with the backend name and failure kind.
func NewAIBackendError(backend string, kind AIErrorKind, err error) *AIBackendError {
	return &AIBackendError{Backend: backend, Kind: kind, Err: err}
}

// AIKind returns the kind of the first AIBackendError in err's chain.
func AIKind(err error) (AIErrorKind, bool) {
	var aiErr *AIBackendError
	if errors.As(err, &aiErr) {
		return aiErr.Kind, true
	}
	return "", false
}
