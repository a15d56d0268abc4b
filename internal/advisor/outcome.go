package advisor

import (
	"context"
	"errors"

	"fjacquet/budget-sim/internal/budgeterror"
)

// OutcomeStatus tags the result of one attempt to get advice from the AI backend.
type OutcomeStatus string

const (
	OutcomeSuccess     OutcomeStatus = "success"
	OutcomeTimeout     OutcomeStatus = "timeout"
	OutcomeUnavailable OutcomeStatus = "unavailable"
)

// Outcome is the tagged result of the AI attempt. Items is only set on
// success; Err is only set otherwise.
type Outcome struct {
	Status OutcomeStatus
	Text   string
	Items  []string
	Err    error
}

func success(text string, items []string) Outcome {
	return Outcome{Status: OutcomeSuccess, Text: text, Items: items}
}

// failure classifies err into a timeout or unavailable outcome.
func failure(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Status: OutcomeTimeout, Err: err}
	}
	if kind, ok := budgeterror.AIKind(err); ok && kind == budgeterror.AITimeout {
		return Outcome{Status: OutcomeTimeout, Err: err}
	}
	return Outcome{Status: OutcomeUnavailable, Err: err}
}

// Reason is a short machine-friendly explanation of a failed outcome.
func (o Outcome) Reason() string {
	if o.Status == OutcomeSuccess {
		return ""
	}
	if kind, ok := budgeterror.AIKind(o.Err); ok {
		return string(kind)
	}
	return string(o.Status)
}
