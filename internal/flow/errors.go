package flow

import (
	"errors"
	"fmt"
)

// ValidationError locates one failure inside a flow set.
type ValidationError struct {
	Flow string // Flow name, when known
	Path string // Source file, when loaded from disk
	Err  error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Flow != "" && e.Path != "":
		return fmt.Sprintf("flow %q (%s): %v", e.Flow, e.Path, e.Err)
	case e.Flow != "":
		return fmt.Sprintf("flow %q: %v", e.Flow, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AggregateError collects every failure from loading or validating a set, so
// one run reports all broken flows instead of stopping at the first.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns the individual errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
