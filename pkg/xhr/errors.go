package xhr

import (
	"fmt"

	"github.com/rohmanhakim/fake-xhr/pkg/failure"
	"github.com/rohmanhakim/fake-xhr/pkg/metadata"
)

type RequestErrorCause string

const (
	ErrCauseInvalidState    RequestErrorCause = "invalid state"
	ErrCauseForbiddenHeader RequestErrorCause = "forbidden header"
	ErrCauseSequencing      RequestErrorCause = "sequencing"
	ErrCauseInvalidBody     RequestErrorCause = "invalid body"
)

// RequestError reports misuse of a fake request. Every cause is a mistake in
// the code driving the request, so none of them is recoverable.
type RequestError struct {
	Message string
	Cause   RequestErrorCause
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("xhr error: %s: %s", e.Cause, e.Message)
}

func (e *RequestError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// Is matches another *RequestError with the same cause, so callers can test
// with errors.Is(err, &xhr.RequestError{Cause: xhr.ErrCauseSequencing}).
func (e *RequestError) Is(target error) bool {
	t, ok := target.(*RequestError)
	if !ok {
		return false
	}
	return t.Cause == e.Cause
}

// mapRequestErrorToMetadataCause maps xhr-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only.
func mapRequestErrorToMetadataCause(err *RequestError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseInvalidState:
		return metadata.CauseInvalidState
	case ErrCauseForbiddenHeader:
		return metadata.CauseForbiddenHeader
	case ErrCauseSequencing:
		return metadata.CauseSequencing
	case ErrCauseInvalidBody:
		return metadata.CauseInvalidBody
	default:
		return metadata.CauseUnknown
	}
}
