package dispatch

import "fmt"

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx terminal statuses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx terminal statuses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassTimeout represents per-request timeouts.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassNetwork represents transport-level errors.
	ErrorClassNetwork ErrorClass = "network"
)

// RequestError describes a single failed warm-up request. Reason is the
// short, stable string surfaced in the outcome ("timeout", "status 503", or
// the transport error text).
type RequestError struct {
	Reason    string
	TargetURI string
	Class     ErrorClass
	Err       error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("warm-up request to %s failed: %s", e.TargetURI, e.Reason)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// FailureReason returns the short reason for outcome reporting.
func (e *RequestError) FailureReason() string {
	return e.Reason
}
