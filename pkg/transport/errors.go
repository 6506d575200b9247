package transport

import (
	"fmt"

	"github.com/rohmanhakim/fake-xhr/pkg/failure"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
)

type TransportErrorCause string

const (
	ErrCauseNoResponse TransportErrorCause = "no response"
	ErrCauseAborted    TransportErrorCause = "aborted"
	ErrCauseReadBody   TransportErrorCause = "failed to read request body"
	ErrCauseRejected   TransportErrorCause = "request rejected"
)

type TransportError struct {
	Message   string
	Retryable bool
	Cause     TransportErrorCause
	Err       error
}

// Sentinels for errors.Is; matching compares causes only.
var (
	ErrNoResponse = &TransportError{Cause: ErrCauseNoResponse}
	ErrAborted    = &TransportError{Cause: ErrCauseAborted}
)

func (e *TransportError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("transport error: %s", e.Cause)
	}
	return fmt.Sprintf("transport error: %s: %s", e.Cause, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	t, ok := target.(*TransportError)
	return ok && t.Cause == e.Cause
}

func (e *TransportError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *TransportError) IsRetryable() bool {
	return e.Retryable
}

// mapTransportErrorToMetadataCause maps transport-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only.
func mapTransportErrorToMetadataCause(err *TransportError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNoResponse:
		return metadata.CauseUnroutable
	case ErrCauseRejected:
		return metadata.CauseInvalidState
	default:
		return metadata.CauseUnknown
	}
}
