package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	ErrKindInput  ErrorKind = "INPUT"
	ErrKindColumn ErrorKind = "COLUMN"
	ErrKindLookup ErrorKind = "LOOKUP"
	ErrKindOutput ErrorKind = "OUTPUT"
	ErrKindRender ErrorKind = "RENDER"
	ErrKindConfig ErrorKind = "CONFIG"
)

// PipelineError is returned by every stage of a run. Unparsable numeric
// cells are never reported through it: they become missing values.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair that is logged alongside the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func newError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Cause: cause}
}

func inputError(message string, cause error) *PipelineError {
	return newError(ErrKindInput, message, cause)
}

func columnError(column string) *PipelineError {
	return newError(ErrKindColumn, fmt.Sprintf("column %q not found in dataset", column), nil).
		WithContext("column", column)
}

func lookupError(column, label string) *PipelineError {
	return newError(ErrKindLookup, fmt.Sprintf("label %q not present in column %q", label, column), nil).
		WithContext("column", column).
		WithContext("label", label)
}

func outputError(message string, cause error) *PipelineError {
	return newError(ErrKindOutput, message, cause)
}

func renderError(report string, cause error) *PipelineError {
	return newError(ErrKindRender, fmt.Sprintf("rendering %s", report), cause).
		WithContext("report", report)
}

func configError(message string, cause error) *PipelineError {
	return newError(ErrKindConfig, message, cause)
}

// IsKind reports whether any error in err's chain is a PipelineError of kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	for err != nil {
		if !errors.As(err, &pe) {
			return false
		}
		if pe.Kind == kind {
			return true
		}
		err = pe.Cause
	}
	return false
}
