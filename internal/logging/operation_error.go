package logging

import "fmt"

// OperationError ties an error to the operation and verification request it
// surfaced in, so a single log line or error string is enough to correlate a
// failure with the request that triggered it.
type OperationError struct {
	Operation string
	RequestID string
	Err       error
}

// Error renders "operation (request_id=...): cause", omitting the request ID
// for failures outside any request scope (startup, dialing).
func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id=%s): %v", e.Operation, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap exposes the cause so errors.Is/As see through the annotation.
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError wraps err with operation context. A nil err stays nil so
// callers can wrap unconditionally.
func NewOperationError(operation, requestID string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, RequestID: requestID, Err: err}
}
