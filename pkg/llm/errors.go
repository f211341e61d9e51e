package llm

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a completion call produced no usable payload.
type FailureKind string

const (
	EmptyResponse  FailureKind = "EMPTY_RESPONSE"
	TransportError FailureKind = "TRANSPORT_ERROR"
	SchemaMismatch FailureKind = "SCHEMA_MISMATCH"
)

type CompletionFailure struct {
	Kind FailureKind
	Err  error
}

func (f *CompletionFailure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("completion failed: %s", f.Kind)
	}
	return fmt.Sprintf("completion failed: %s: %v", f.Kind, f.Err)
}

func (f *CompletionFailure) Unwrap() error {
	return f.Err
}

// KindOf extracts the failure kind from err, if it wraps a CompletionFailure.
func KindOf(err error) (FailureKind, bool) {
	var failure *CompletionFailure
	if errors.As(err, &failure) {
		return failure.Kind, true
	}
	return "", false
}
